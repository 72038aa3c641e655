package domain

import (
	"testing"
)

// FuzzParseSubscriberID checks that parsing arbitrary input never panics and
// that any accepted id survives a String round trip unchanged.
func FuzzParseSubscriberID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseSubscriberID(input)
		if err != nil {
			return
		}
		if id.IsZero() {
			t.Error("accepted id is the nil UUID")
		}
		roundTrip, err := ParseSubscriberID(id.String())
		if err != nil {
			t.Errorf("accepted id failed round trip: %v", err)
		}
		if roundTrip != id {
			t.Error("round trip changed the id value")
		}
	})
}
