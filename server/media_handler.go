package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/server/response"
)

// handleUploadProfileImage stores a resized copy plus a thumbnail and points
// the user's profile at the thumbnail.
func (s *Server) handleUploadProfileImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		fileHeader, err := c.FormFile("profile_image")
		if err != nil {
			response.JSON(c, "profile_image file is required", http.StatusBadRequest, nil, err)
			return
		}

		uploaded, apiErr := s.MediaService.UploadImage(c.Request.Context(), session.UserID, fileHeader)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		if err := s.AuthRepository.UpsertUserImage(session.UserID, uploaded.ThumbnailURL); err != nil {
			log.Printf("upload profile image: save url: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "image uploaded", http.StatusOK, uploaded, nil)
	}
}
