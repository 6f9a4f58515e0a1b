package model

import (
	"encoding/json"
	"testing"
)

func TestEmptyPage_Shape(t *testing.T) {
	b, err := json.Marshal(EmptyPage[struct{}](25))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"success":false,"data":[],"meta":{"pagination":{"current_page":1,"per_page":25,"total_count":0,"total_pages":0,"has_next":false,"has_prev":false}}}`
	if string(b) != want {
		t.Errorf("EmptyPage JSON = %s, want %s", b, want)
	}
}

func TestErrorEnvelope_JSON(t *testing.T) {
	b, err := json.Marshal(ErrorEnvelope{Error: "API error: 404", Message: "Not Found", Endpoint: "api/v1/servers/7"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"success":false,"error":"API error: 404","message":"Not Found","endpoint":"api/v1/servers/7"}`
	if string(b) != want {
		t.Errorf("ErrorEnvelope JSON = %s, want %s", b, want)
	}
}
