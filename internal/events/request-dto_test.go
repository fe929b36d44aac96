package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/shared/validation"
)

func TestEventForm_ToRequest(t *testing.T) {
	form := EventForm{
		Name:      " Jazz Night ",
		EventDate: "2026-05-01T19:00",
		Venue:     "Blue Hall",
		Tags:      "music, live ,, jazz",
		TicketTypes: []TicketTypeForm{
			{Name: "GA", Price: "10", TotalQuantity: "5"},
			{Name: "VIP", Price: "49.50", TotalQuantity: " 2 "},
		},
	}

	req, err := form.ToRequest()
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "Jazz Night", wire["name"])
	assert.Equal(t, "2026-05-01T19:00", wire["eventDate"])
	assert.Equal(t, []any{"music", "live", "jazz"}, wire["tags"])

	types := wire["ticketTypes"].([]any)
	ga := types[0].(map[string]any)
	assert.Equal(t, float64(10), ga["price"])
	assert.Equal(t, float64(5), ga["totalQuantity"])
	vip := types[1].(map[string]any)
	assert.Equal(t, 49.5, vip["price"])
	assert.Equal(t, float64(2), vip["totalQuantity"])

	_, hasEnd := wire["endDate"]
	assert.False(t, hasEnd, "empty optional fields are omitted")
}

func TestEventForm_ToRequestRejectsNonNumbers(t *testing.T) {
	form := EventForm{
		Name: "Broken",
		TicketTypes: []TicketTypeForm{
			{Name: "GA", Price: "ten", TotalQuantity: "5.5"},
		},
	}

	_, err := form.ToRequest()

	var ve *validation.Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []validation.FieldError{
		{Field: "ticketTypes[0].price", Message: "must be a number"},
		{Field: "ticketTypes[0].totalQuantity", Message: "must be a whole number"},
	}, ve.Fields)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags("a, b"))
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"one"}, SplitTags(" , one ,"))
}

func TestListParams_Values(t *testing.T) {
	assert.Equal(t, "page=2&size=20", ListParams{Page: 2, Size: 20}.Values().Encode())
	assert.Equal(t, "", ListParams{}.Values().Encode())
}

func TestParseLocalDateTime(t *testing.T) {
	for _, in := range []string{"2026-05-01T19:00", "2026-05-01T19:00:00", "2026-05-01T19:00:00.123", "2026-05-01T19:00:00Z"} {
		got, err := ParseLocalDateTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, 19, got.Hour())
	}
	_, err := ParseLocalDateTime("01/05/2026")
	assert.Error(t, err)
}
