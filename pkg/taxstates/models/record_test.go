package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestRecordOrder(t *testing.T) {
	r := NewRecord()
	r.Set("State", "Alabama")
	r.Set("Type", "Tax lien")
	r.Set("State", "Alaska") // overwrite keeps position

	expected := []string{"State", "Type"}
	if !reflect.DeepEqual(r.Titles(), expected) {
		t.Errorf("Titles() = %v, expected %v", r.Titles(), expected)
	}
	if v, _ := r.Get("State"); v != "Alaska" {
		t.Errorf("Get(\"State\") = %v, expected \"Alaska\"", v)
	}
}

func TestRecordBackfill(t *testing.T) {
	s := NewSchema([]Pair{
		{Key: "State", Title: "State"},
		{Key: "Type", Title: "Type"},
		{Key: "Statute", Title: "Statute"},
	})

	r := NewRecord()
	r.Set("State", "Georgia")
	r.Backfill(s)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", r.Len())
	}
	if v, ok := r.Get("Statute"); !ok || v != "" {
		t.Errorf("Get(\"Statute\") = %v, %v, expected empty string", v, ok)
	}
	if !reflect.DeepEqual(r.Titles(), []string{"State", "Type", "Statute"}) {
		t.Errorf("Titles() = %v after backfill", r.Titles())
	}
}

func TestRecordMarshalJSONOrder(t *testing.T) {
	r := NewRecord()
	r.Set("Zebra", "z")
	r.Set("Apple", "a")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"Zebra":"z","Apple":"a"}`
	if string(data) != expected {
		t.Errorf("Marshal = %s, expected %s", data, expected)
	}
}

func TestRender(t *testing.T) {
	when := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		value    Value
		expected string
	}{
		{"plain", "plain"},
		{"", ""},
		{nil, ""},
		{when, "2024-03-15T09:30:00"},
	}

	for _, tt := range tests {
		if got := Render(tt.value); got != tt.expected {
			t.Errorf("Render(%v) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}
