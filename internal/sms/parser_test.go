package sms

import (
	"testing"

	"mobiflow/internal/core"
)

func TestParsePaymentVariants(t *testing.T) {
	cases := []struct {
		msg    string
		amount int64
		party  string
	}{
		{`TxId: 72831991. Your payment of 2,000 RWF to KIGALI WHOLESALE LTD has been completed at 2025-03-12 09:14:22. Your new balance: 45,300 RWF. Fee was 0 RWF.`, 2000, "KIGALI WHOLESALE LTD"},
		{`Your payment of 15000 RWF to ERIC N. was successful. Fee: 100 RWF.`, 15000, "ERIC N"},
		{`*162*TxId:88210045*S*Your payment of 1,500 RWF to Kigali Bus Services 250788123456 was completed, your new balance is 12,800 RWF.`, 1500, "Kigali Bus Services 250788123456"},
	}

	for _, c := range cases {
		p, err := Parse(c.msg)
		if err != nil {
			t.Fatalf("expected parse ok for %q, got err: %v", c.msg, err)
		}
		if p.Type != core.Expense {
			t.Fatalf("payment should be expense, got %s", p.Type)
		}
		if p.Amount != c.amount {
			t.Fatalf("wrong amount. want %d got %d", c.amount, p.Amount)
		}
		if p.Party != c.party {
			t.Fatalf("wrong party. want %q got %q", c.party, p.Party)
		}
	}
}

func TestParseReceivedVariants(t *testing.T) {
	cases := []struct {
		msg    string
		amount int64
		party  string
	}{
		{`You have received 5,000 RWF from JEAN BAPTISTE (*********123) on your mobile money account at 2025-03-12 18:02:11. Your new balance: 50,300 RWF.`, 5000, "JEAN BAPTISTE"},
		{`You have received 30000 RWF from MUKAMANA   CLAIRE. New balance: 80,300 RWF.`, 30000, "MUKAMANA CLAIRE"},
	}

	for _, c := range cases {
		p, err := Parse(c.msg)
		if err != nil {
			t.Fatalf("expected parse ok for %q, got err: %v", c.msg, err)
		}
		if p.Type != core.Income {
			t.Fatalf("receipt should be income, got %s", p.Type)
		}
		if p.Amount != c.amount {
			t.Fatalf("wrong amount. want %d got %d", c.amount, p.Amount)
		}
		if p.Party != c.party {
			t.Fatalf("wrong party. want %q got %q", c.party, p.Party)
		}
	}
}

func TestParseRejectsUnrelatedMessages(t *testing.T) {
	cases := []string{
		"Your airtime purchase was successful.",
		"payment of RWF to SHOP",
		"You have received a new voicemail.",
		"",
	}
	for _, msg := range cases {
		if _, err := Parse(msg); err == nil {
			t.Errorf("expected error for %q", msg)
		}
	}
}

func TestToInput(t *testing.T) {
	p := &ParsedSMS{Type: core.Expense, Amount: 2000, Party: "KIGALI WHOLESALE LTD"}
	in := p.ToInput()

	if in.Label != "KIGALI WHOLESALE LTD" || in.Amount != 2000 || in.Type != core.Expense || in.Category != "Other" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("derived input must validate: %v", err)
	}
}
