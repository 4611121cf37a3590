package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/openboardview/xzzpcbgo/diagnostics"
)

func TestBag_AddAndItemsPreserveOrder(t *testing.T) {
	bag := &diagnostics.Bag{}
	bag.Add(diagnostics.Overrun(10, 4))
	bag.Add(diagnostics.UnknownTag(20, 0xEE))

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Kind != diagnostics.KindOverrun {
		t.Fatalf("item 0 kind = %q, want %q", items[0].Kind, diagnostics.KindOverrun)
	}
	if items[1].Kind != diagnostics.KindUnknownTag {
		t.Fatalf("item 1 kind = %q, want %q", items[1].Kind, diagnostics.KindUnknownTag)
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := diagnostics.Overrun(5, 4)
	s := d.String()
	if s == "" {
		t.Fatal("String() must not be empty")
	}
}

func TestUnknownTag_RecordsTagInMessage(t *testing.T) {
	d := diagnostics.UnknownTag(0, 0xAB)
	if d.Offset != 0 {
		t.Fatalf("got offset %d, want 0", d.Offset)
	}
	if d.Kind != diagnostics.KindUnknownTag {
		t.Fatalf("got kind %q, want %q", d.Kind, diagnostics.KindUnknownTag)
	}
	if !strings.Contains(d.Message, "0xab") {
		t.Fatalf("got message %q, want it to contain the tag 0xab", d.Message)
	}
}
