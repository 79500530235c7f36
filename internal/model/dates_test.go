package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "slash format is day first", in: "07/03/2024", want: "2024-03-07"},
		{name: "iso with time", in: "2024-03-07T00:00:00", want: "2024-03-07"},
		{name: "iso with space time", in: "2024-03-07 14:30:00", want: "2024-03-07"},
		{name: "already normalized", in: "2024-03-07", want: "2024-03-07"},
		{name: "single digit day and month", in: "1/2/2024", want: "2024-02-01"},
		{name: "whitespace trimmed", in: " 07/03/2024 ", want: "2024-03-07"},
		{name: "malformed passes through", in: "07/03", want: "07/03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestSentimentNullAndRange(t *testing.T) {
	s := Turnover{Buy: 600, Sell: 400}.Sentiment()
	if assert.NotNil(t, s) {
		assert.InDelta(t, 0.2, *s, 1e-9)
	}

	s = Turnover{Buy: 1000, Sell: 0}.Sentiment()
	if assert.NotNil(t, s) {
		assert.Equal(t, 1.0, *s)
	}

	assert.Nil(t, Turnover{}.Sentiment())
}
