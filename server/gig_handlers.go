package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/server/response"
)

func (s *Server) handleCreateGig() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var gig models.Gig
		if !decode(c, &gig) {
			return
		}
		if apiErr := s.GigService.CreateGig(session, &gig); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "gig created", http.StatusCreated, gig, nil)
	}
}

// handleListGigs serves the public catalogue, filterable by category or
// freelancer.
func (s *Server) handleListGigs() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.Query("freelancer_id"); raw != "" {
			freelancerID, err := parseUintQuery(raw)
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
				return
			}
			gigs, err := s.GigService.ListGigsByFreelancer(freelancerID)
			if err != nil {
				log.Printf("list gigs by freelancer: %v", err)
				response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
				return
			}
			response.JSON(c, "gigs retrieved", http.StatusOK, gigs, nil)
			return
		}

		gigs, err := s.GigService.ListGigsByCategory(c.Query("category"))
		if err != nil {
			log.Printf("list gigs: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "gigs retrieved", http.StatusOK, gigs, nil)
	}
}

func (s *Server) handleCreateJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var job models.Job
		if !decode(c, &job) {
			return
		}
		if apiErr := s.GigService.CreateJob(session, &job); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "job posted", http.StatusCreated, job, nil)
	}
}

func (s *Server) handleListJobs() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := s.GigService.ListActiveJobs()
		if err != nil {
			log.Printf("list jobs: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "jobs retrieved", http.StatusOK, jobs, nil)
	}
}

func (s *Server) handleCreateProposal() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		var proposal models.Proposal
		if err := c.ShouldBindJSON(&proposal); err != nil {
			response.JSON(c, "bad request", http.StatusBadRequest, nil, err)
			return
		}
		if proposal.JobID == 0 {
			response.JSON(c, "job_id is required", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		if apiErr := s.GigService.CreateProposal(session, &proposal); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "proposal submitted", http.StatusCreated, proposal, nil)
	}
}

func (s *Server) handleListMyProposals() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		proposals, err := s.GigService.ListProposalsByFreelancer(session.UserID)
		if err != nil {
			log.Printf("list proposals: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "proposals retrieved", http.StatusOK, proposals, nil)
	}
}

func (s *Server) handleListJobProposals() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := parseUintParam(c, "jobID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		proposals, err := s.GigService.ListProposalsByJob(jobID)
		if err != nil {
			log.Printf("list job proposals: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "proposals retrieved", http.StatusOK, proposals, nil)
	}
}

func (s *Server) handleSaveBookmark() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		gigID, err := parseUintParam(c, "gigID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		if err := s.GigService.SaveBookmark(session.UserID, gigID); err != nil {
			log.Printf("save bookmark: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "gig bookmarked", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleRemoveBookmark() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		gigID, err := parseUintParam(c, "gigID")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		if err := s.GigService.RemoveBookmark(session.UserID, gigID); err != nil {
			log.Printf("remove bookmark: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "bookmark removed", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleListBookmarks() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, apiErr := currentSession(c)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		gigs, err := s.GigService.ListBookmarkedGigs(session.UserID)
		if err != nil {
			log.Printf("list bookmarks: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "bookmarks retrieved", http.StatusOK, gigs, nil)
	}
}
