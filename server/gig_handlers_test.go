package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/services"
	"github.com/gin-gonic/gin"
)

// stubGigService records the category filters the catalogue handler asks for.
type stubGigService struct {
	services.GigService
	gigs       []models.Gig
	categories []string
}

func (s *stubGigService) ListGigsByCategory(category string) ([]models.Gig, error) {
	s.categories = append(s.categories, category)
	return s.gigs, nil
}

func newGigTestServer(gigs services.GigService) *gin.Engine {
	os.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)
	s := &Server{GigService: gigs}
	r := gin.New()
	s.defineRoutes(r)
	return r
}

func TestListGigsWithoutFilterReturnsCatalogue(t *testing.T) {
	stub := &stubGigService{gigs: []models.Gig{{Title: "logo design"}, {Title: "seo audit"}}}
	r := newGigTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gigs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(stub.categories) != 1 || stub.categories[0] != "" {
		t.Fatalf("categories queried = %q, want one empty filter", stub.categories)
	}
}

func TestListGigsByCategoryPassesFilter(t *testing.T) {
	stub := &stubGigService{}
	r := newGigTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gigs?category=design", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(stub.categories) != 1 || stub.categories[0] != "design" {
		t.Fatalf("categories queried = %q, want [\"design\"]", stub.categories)
	}
}
