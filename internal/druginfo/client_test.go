package druginfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchFound(t *testing.T) {
	var gotQuery string
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drug/label.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("search")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [{
				"openfda": {
					"generic_name": ["ACETYLSALICYLIC ACID"],
					"brand_name": ["Aspirin"],
					"pharm_class_epc": ["Nonsteroidal Anti-inflammatory Drug [EPC]"]
				},
				"purpose": ["Pain reliever"],
				"indications_and_usage": ["temporarily relieves minor aches"],
				"warnings": ["Reye's syndrome"],
				"adverse_reactions": ["stomach bleeding"],
				"description": ["white crystalline powder"]
			}]
		}`))
	}))
	defer fake.Close()

	client := NewClient(fake.URL)
	info, found := client.Search(context.Background(), "Aspirin")
	if !found {
		t.Fatalf("expected a result")
	}
	if !strings.Contains(gotQuery, `openfda.brand_name:"Aspirin"`) || !strings.Contains(gotQuery, `openfda.generic_name:"Aspirin"`) {
		t.Fatalf("search query should match brand and generic name, got %q", gotQuery)
	}
	if info.BrandName != "Aspirin" || info.GenericName != "ACETYLSALICYLIC ACID" {
		t.Fatalf("unexpected names: %+v", info)
	}
	if info.Purpose != "Pain reliever" || info.DrugClass == "" {
		t.Fatalf("unexpected label fields: %+v", info)
	}
	if len(info.Warnings) != 1 || info.Warnings[0] != "Reye's syndrome" {
		t.Fatalf("unexpected warnings: %+v", info.Warnings)
	}
}

func TestSearchNoResults(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer fake.Close()

	client := NewClient(fake.URL)
	if _, found := client.Search(context.Background(), "Unknownium"); found {
		t.Fatalf("expected no result")
	}
}

func TestSearchUpstreamError(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer fake.Close()

	client := NewClient(fake.URL)
	if _, found := client.Search(context.Background(), "Aspirin"); found {
		t.Fatalf("upstream errors should report not found")
	}
}

func TestSearchUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	if _, found := client.Search(context.Background(), "Aspirin"); found {
		t.Fatalf("unreachable upstream should report not found")
	}
}

func TestSearchMissingNameFallback(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"purpose": ["Pain reliever"]}]}`))
	}))
	defer fake.Close()

	client := NewClient(fake.URL)
	info, found := client.Search(context.Background(), "Aspirin")
	if !found {
		t.Fatalf("expected a result")
	}
	if info.BrandName != "Aspirin" || info.GenericName != "Aspirin" {
		t.Fatalf("missing names should fall back to the query, got %+v", info)
	}
}
