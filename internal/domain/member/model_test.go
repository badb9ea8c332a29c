package member_test

import (
	"encoding/json"
	"testing"

	"gymadmin/internal/domain/member"
)

// TestRecord_RemainingCredits verifies the credit balance is total minus used.
func TestRecord_RemainingCredits(t *testing.T) {
	r := member.Record{Type: member.TypeCredit, CreditTotal: 30, CreditUsed: 12}
	if got := r.RemainingCredits(); got != 18 {
		t.Errorf("RemainingCredits() = %d, want 18", got)
	}
	r.CreditUsed = 13
	if got := r.RemainingCredits(); got != 17 {
		t.Errorf("RemainingCredits() after use = %d, want 17", got)
	}
}

// TestRecord_DecodesBackendRow verifies a joined member row decodes with 0/1 flags.
func TestRecord_DecodesBackendRow(t *testing.T) {
	raw := `{"member_id":4,"membership_id":9,"name":"Ali Veli","email":"ali@x.com","type":"timed","remaining_days":null,"credit_total":30,"credit_used":0,"is_active":1}`
	var r member.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !r.IsTimed() || !bool(r.IsActive) || r.RemainingDays != nil {
		t.Errorf("unexpected record: %+v", r)
	}
}

// TestAddRequest_Validate tests presence validation of the add-member form.
func TestAddRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     member.AddRequest
		wantErr error
	}{
		{"valid", member.AddRequest{Email: "a@b.com", Type: member.TypeTimed}, nil},
		{"empty email", member.AddRequest{Type: member.TypeTimed}, member.ErrEmailRequired},
		{"blank email", member.AddRequest{Email: "   "}, member.ErrEmailRequired},
		{"credit", member.AddRequest{Email: "a@b.com", Type: member.TypeCredit}, nil},
		{"missing type", member.AddRequest{Email: "a@b.com"}, member.ErrInvalidType},
		{"unknown type", member.AddRequest{Email: "a@b.com", Type: "yearly"}, member.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAddRequest_EncodesNullAmounts verifies unset numeric fields are sent as null.
func TestAddRequest_EncodesNullAmounts(t *testing.T) {
	days := 30
	b, err := json.Marshal(member.AddRequest{GymID: 1, Email: "a@b.com", Type: member.TypeTimed, Days: &days})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"gym_id":1,"email":"a@b.com","type":"timed","days":30,"credits":null}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}
}
