package intake_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/intake"
)

func TestExtractEntities(t *testing.T) {
	text := "Paid Rs. 5,000 on 01/02/2023 and ₹ 10,000 on 5 March 2023, then INR 200.50, " +
		"later 5 lakhs and 2 crore rupees on 07-08-24"

	got := intake.ExtractEntities(text, 0)
	want := intake.Entities{
		Dates:   []string{"01/02/2023", "07-08-24", "5 March 2023"},
		Amounts: []string{"Rs. 5,000", "₹ 10,000", "INR 200.50", "5 lakhs", "2 crore"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entities mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractEntities_Cap(t *testing.T) {
	text := "01/01/2020 02/01/2020 03/01/2020 04/01/2020 05/01/2020 06/01/2020 07/01/2020 and 1 January 2021"

	got := intake.ExtractEntities(text, 0)
	want := []string{"01/01/2020", "02/01/2020", "03/01/2020", "04/01/2020", "05/01/2020"}
	if diff := cmp.Diff(want, got.Dates); diff != "" {
		t.Fatalf("dates mismatch (-want +got):\n%s", diff)
	}

	capped := intake.ExtractEntities(text, 2)
	if diff := cmp.Diff([]string{"01/01/2020", "02/01/2020"}, capped.Dates); diff != "" {
		t.Fatalf("custom cap mismatch (-want +got):\n%s", diff)
	}
	if !intake.ExtractEntities("nothing to see", 5).Empty() {
		t.Fatalf("expected no entities")
	}
}
