package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/server/response"
)

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var req models.SendMessageRequest
		if !decode(c, &req) {
			return
		}

		msg, apiErr := s.MessageService.SendMessage(session, &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "message sent", http.StatusCreated, msg, nil)
	}
}

func (s *Server) handleListMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		otherID, err := parseUintParam(c, "otherID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		msgs, err := s.MessageService.ListMessages(session.UserID, otherID)
		if err != nil {
			log.Printf("list messages: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "messages retrieved", http.StatusOK, msgs, nil)
	}
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		snapshot, err := s.MessageService.ListConversations(session.UserID)
		if err != nil {
			log.Printf("list conversations: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "conversations retrieved", http.StatusOK, snapshot, nil)
	}
}

func (s *Server) handleMarkConversationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		otherID, err := parseUintParam(c, "otherID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		var gigID uint
		if raw := c.Query("gig_id"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
				return
			}
			gigID = uint(v)
		}

		if apiErr := s.MessageService.MarkConversationRead(session.UserID, otherID, gigID); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "conversation marked read", http.StatusOK, nil, nil)
	}
}
