package app

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"eternal-valentine/internal/card"
	"eternal-valentine/internal/holiday"

	"github.com/PuerkitoBio/goquery"
)

// TestFullWorkflow drives the page the way a browser does: load, flip every
// card twice, reload, flip again.
func TestFullWorkflow(t *testing.T) {
	gen := &mockTextGen{res: `{"quote": "Q", "reason": "R", "suggestion": "S"}`}
	application := NewApp(testConfig(), gen, nil)

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	browser := &http.Client{Jar: jar}

	loadPage := func() []string {
		t.Helper()
		resp, err := browser.Get(srv.URL + "/")
		if err != nil {
			t.Fatalf("Failed to load page: %v", err)
		}
		defer resp.Body.Close()

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			t.Fatalf("Failed to parse page: %v", err)
		}
		var ids []string
		doc.Find("article.card").Each(func(_ int, s *goquery.Selection) {
			id, _ := s.Attr("data-id")
			ids = append(ids, id)
		})
		return ids
	}

	flip := func(id string) card.State {
		t.Helper()
		resp, err := browser.Post(srv.URL+"/api/cards/"+id+"/reveal", "application/json", nil)
		if err != nil {
			t.Fatalf("Reveal %s failed: %v", id, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Reveal %s: expected 200, got %d", id, resp.StatusCode)
		}
		var s card.State
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			t.Fatalf("Failed to decode state: %v", err)
		}
		return s
	}

	// --- Step 1: First page session ---
	ids := loadPage()
	if len(ids) != len(holiday.All()) {
		t.Fatalf("Expected %d cards, got %d", len(holiday.All()), len(ids))
	}
	for _, id := range ids {
		if s := flip(id); !s.Revealed || s.Message == nil {
			t.Errorf("%s: expected a revealed card with a message, got %+v", id, s)
		}
		if s := flip(id); s.Revealed {
			t.Errorf("%s: expected the second flip to hide the card", id)
		}
	}
	if gen.Calls() != len(ids) {
		t.Errorf("Expected %d generations, got %d", len(ids), gen.Calls())
	}

	// --- Step 2: Reload starts a fresh session ---
	gen.Reset()
	ids = loadPage()
	flip(ids[0])
	if gen.Calls() != 1 {
		t.Errorf("Expected the new session to generate again, got %d calls", gen.Calls())
	}
}
