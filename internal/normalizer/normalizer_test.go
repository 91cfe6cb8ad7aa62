package normalizer

import (
	"reflect"
	"testing"
)

func TestMergeRows_ContinuationLines(t *testing.T) {
	text := `01/04/2023 UPI PAYMENT 500.00
TO GROCERY STORE
MUMBAI
02/04/2023 SALARY 5,000.00`

	rows := MergeRows(text)
	want := []string{
		"01/04/2023 UPI PAYMENT 500.00 TO GROCERY STORE MUMBAI",
		"02/04/2023 SALARY 5,000.00",
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows: got %q, want %q", rows, want)
	}
}

func TestMergeRows_BlankLinesSkipped(t *testing.T) {
	text := "01/04/2023 UPI PAYMENT\n\n   \nTO STORE\n"

	rows := MergeRows(text)
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0] != "01/04/2023 UPI PAYMENT TO STORE" {
		t.Errorf("rows[0]: got %q", rows[0])
	}
}

// A leading continuation line has no row to attach to and is dropped.
// Documented behavior, kept deliberately.
func TestMergeRows_LeadingContinuationDropped(t *testing.T) {
	text := `CARRIED OVER FROM PREVIOUS PAGE
01/04/2023 UPI PAYMENT 500.00`

	rows := MergeRows(text)
	want := []string{"01/04/2023 UPI PAYMENT 500.00"}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows: got %q, want %q", rows, want)
	}
}

func TestMergeRows_FinalRowFlushed(t *testing.T) {
	rows := MergeRows("01/04/2023 LAST ROW\nTRAILING DETAIL")
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0] != "01/04/2023 LAST ROW TRAILING DETAIL" {
		t.Errorf("rows[0]: got %q", rows[0])
	}
}

func TestMergeRows_NoAnchoredRows(t *testing.T) {
	rows := MergeRows("ACCOUNT STATEMENT\nNO TRANSACTIONS THIS PERIOD")
	if len(rows) != 0 {
		t.Errorf("rows: got %d, want 0", len(rows))
	}
}
