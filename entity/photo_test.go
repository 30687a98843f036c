package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestResolvedCity(t *testing.T) {
	tests := []struct {
		name  string
		photo Photo
		want  string
	}{
		{
			name: "regular country uses city",
			photo: Photo{
				Country:     strPtr("Italy"),
				CountryCode: strPtr("IT"),
				Region:      strPtr("Lazio"),
				City:        strPtr("Rome"),
			},
			want: "Rome",
		},
		{
			name: "japan uses region",
			photo: Photo{
				Country:     strPtr("Japan"),
				CountryCode: strPtr("JP"),
				Region:      strPtr("Tokyo"),
				City:        strPtr("Shibuya"),
			},
			want: "Tokyo",
		},
		{
			name: "taiwan uses region",
			photo: Photo{
				Country:     strPtr("Taiwan"),
				CountryCode: strPtr("TW"),
				Region:      strPtr("Taipei"),
				City:        strPtr("Da'an District"),
			},
			want: "Taipei",
		},
		{
			name: "missing country code falls back to city",
			photo: Photo{
				Country: strPtr("Japan"),
				Region:  strPtr("Tokyo"),
				City:    strPtr("Shibuya"),
			},
			want: "Shibuya",
		},
		{
			name:  "no geo data at all",
			photo: Photo{},
			want:  "",
		},
		{
			name: "japan without region resolves empty",
			photo: Photo{
				Country:     strPtr("Japan"),
				CountryCode: strPtr("JP"),
				City:        strPtr("Shibuya"),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.photo.ResolvedCity())
		})
	}
}

func TestHasCityGroup(t *testing.T) {
	grouped := Photo{
		Country:     strPtr("Italy"),
		CountryCode: strPtr("IT"),
		City:        strPtr("Rome"),
	}
	assert.True(t, grouped.HasCityGroup())

	noCountry := Photo{City: strPtr("Rome")}
	assert.False(t, noCountry.HasCityGroup())

	// JP photo without region has no resolvable city even though the raw
	// city field is set.
	jpNoRegion := Photo{
		Country:     strPtr("Japan"),
		CountryCode: strPtr("JP"),
		City:        strPtr("Shibuya"),
	}
	assert.False(t, jpNoRegion.HasCityGroup())
}
