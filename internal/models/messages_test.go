package models

import (
	"encoding/json"
	"testing"
)

func TestDrawPayloadGeometry(t *testing.T) {
	raw := `{"prevX":1,"prevY":2,"x":3,"y":4,"color":"#abc","size":5,"tool":"pen","clientId":"c1"}`

	var p DrawPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Failed to unmarshal draw payload: %v", err)
	}

	g, ok := p.Geometry()
	if !ok {
		t.Fatalf("Expected a complete payload to validate")
	}
	want := Geometry{PrevX: 1, PrevY: 2, X: 3, Y: 4, Color: "#abc", Size: 5, Tool: "pen"}
	if g != want {
		t.Errorf("Expected %+v, got %+v", want, g)
	}
}

func TestDrawPayloadMissingCoordinateIsRejected(t *testing.T) {
	cases := []string{
		`{"prevY":2,"x":3,"y":4}`,
		`{"prevX":1,"x":3,"y":4}`,
		`{"prevX":1,"prevY":2,"y":4}`,
		`{"prevX":1,"prevY":2,"x":3}`,
		`{}`,
	}
	for _, raw := range cases {
		var p DrawPayload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("Unexpected unmarshal error for %s: %v", raw, err)
		}
		if _, ok := p.Geometry(); ok {
			t.Errorf("Expected payload %s to be rejected", raw)
		}
	}
}

func TestDrawPayloadNonNumericCoordinateIsRejected(t *testing.T) {
	raw := `{"prevX":"oops","prevY":2,"x":3,"y":4}`

	var p DrawPayload
	if err := json.Unmarshal([]byte(raw), &p); err == nil {
		t.Errorf("Expected non-numeric coordinate to fail unmarshaling")
	}
}
