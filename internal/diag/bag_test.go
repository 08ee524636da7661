package diag

import (
	"testing"

	"weft/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	d := New(SevInfo, CtxInfo, source.Span{Doc: 1}, "x")

	if !bag.Add(d) || !bag.Add(d) {
		t.Fatalf("first two adds must succeed")
	}
	if bag.Add(d) {
		t.Fatalf("add beyond the limit must be dropped")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(8)
	bag.Add(New(SevInfo, CtxInfo, source.Span{Doc: 1}, "info"))
	if bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("info-only bag must report no warnings or errors")
	}
	bag.Add(New(SevWarning, CtxAmbientRead, source.Span{Doc: 1}, "warn"))
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("warning bag state wrong")
	}
	bag.Add(New(SevError, IOSnapshotCorrupt, source.Span{Doc: 1}, "err"))
	if !bag.HasErrors() {
		t.Fatalf("error not detected")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(8)
	bag.Add(New(SevInfo, CtxInfo, source.Span{Doc: 2, Start: 5, End: 6}, "later doc"))
	bag.Add(New(SevInfo, CtxInfo, source.Span{Doc: 1, Start: 9, End: 10}, "later span"))
	bag.Add(New(SevWarning, CtxAmbientRead, source.Span{Doc: 1, Start: 3, End: 4}, "warn"))
	bag.Add(New(SevError, IOSnapshotCorrupt, source.Span{Doc: 1, Start: 3, End: 4}, "err"))

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "err" {
		t.Fatalf("severity must break span ties descending: %+v", items[0])
	}
	if items[1].Message != "warn" {
		t.Fatalf("items[1] = %+v", items[1])
	}
	if items[2].Message != "later span" || items[3].Message != "later doc" {
		t.Fatalf("document/span order wrong: %+v", items)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	d := New(SevWarning, CtxAmbientRead, source.Span{Doc: 1, Start: 3, End: 4}, "same")
	bag.Add(d)
	bag.Add(d)
	bag.Add(New(SevWarning, CtxAmbientRead, source.Span{Doc: 1, Start: 3, End: 4}, "different"))

	bag.Sort()
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Len after dedup = %d, want 2: %+v", bag.Len(), bag.Items())
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	bag := NewBag(8)
	rep := NewDedupReporter(NewBagReporter(bag))
	sp := source.Span{Doc: 1, Start: 3, End: 4}

	rep.Report(CtxAmbientRead, SevWarning, sp, "same", nil)
	rep.Report(CtxAmbientRead, SevWarning, sp, "same", nil)
	rep.Report(CtxAmbientRead, SevWarning, sp, "other", nil)

	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2: %+v", bag.Len(), bag.Items())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{RefMissingAnalyzer, "REF1001"},
		{DeclObsoleteBase, "DECL2001"},
		{CtxAmbientRead, "CTX3001"},
		{IOSnapshotSchema, "IO4001"},
		{UnknownCode, "W0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("ID(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
	if CtxAmbientRead.Title() == "" || UnknownCode.Title() == "" {
		t.Fatalf("every code needs a title")
	}
}
