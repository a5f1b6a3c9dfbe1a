package gesture

import (
	"strings"
	"testing"
)

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Thresholds)
		wantErr string
	}{
		{name: "defaults", modify: func(*Thresholds) {}},
		{name: "zero slack", modify: func(t *Thresholds) { t.HelpDistanceSlack = 0 }},
		{name: "zero spread", modify: func(t *Thresholds) { t.HelloSpread = 0 }, wantErr: "hello_spread"},
		{name: "negative margin", modify: func(t *Thresholds) { t.PalmMargin = -0.1 }, wantErr: "palm_margin"},
		{name: "negative slack", modify: func(t *Thresholds) { t.HelpDistanceSlack = -1 }, wantErr: "help_distance_slack"},
		{name: "open count too high", modify: func(t *Thresholds) { t.OpenFingerCount = 5 }, wantErr: "open_finger_count"},
		{name: "open count zero", modify: func(t *Thresholds) { t.OpenFingerCount = 0 }, wantErr: "open_finger_count"},
		{name: "confidence over 100", modify: func(t *Thresholds) { t.HelpConfidence = 101 }, wantErr: "help_confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.modify(&th)

			err := th.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestThresholds_ValidateReportsAll(t *testing.T) {
	th := DefaultThresholds()
	th.HelloSpread = 0
	th.YesConfidence = -1

	err := th.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"hello_spread", "yes_confidence"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
