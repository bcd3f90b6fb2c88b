package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lux-resonans/internal/units"
	"lux-resonans/pkg/models"
)

func q(text string, u units.Unit) units.Quantity {
	return units.Quantity{Value: units.Parse(text), Unit: u}
}

func validDoubleSlit() Parameters {
	return Parameters{
		Type:           models.DoubleSlit,
		Wavelength:     q("550", units.Nanometer),
		SlitWidth:      q("10", units.Micrometer),
		SlitSeparation: q("50", units.Micrometer),
		ScreenDistance: q("1", units.Meter),
	}
}

func TestValidateDoubleSlit(t *testing.T) {
	req, err := Validate(validDoubleSlit())
	require.NoError(t, err)

	assert.Equal(t, models.DoubleSlit, req.SimulationType)
	assert.Equal(t, 550.0, req.Wavelength)
	assert.Equal(t, units.Nanometer, req.WavelengthUnit)
	require.NotNil(t, req.SlitSeparation)
	assert.Equal(t, 50.0, *req.SlitSeparation)
	assert.Equal(t, units.Micrometer, req.SlitSeparationUnit)
	assert.Equal(t, 1.0, req.ScreenDistance)
}

func TestValidateParseabilityBeforePositivity(t *testing.T) {
	p := validDoubleSlit()
	p.Wavelength = q("abc", units.Nanometer)
	p.SlitWidth = q("-5", units.Micrometer)

	_, err := Validate(p)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.NotErrorIs(t, err, ErrNonPositive)
	assert.Equal(t, IncompleteMessage, Message(err))
}

func TestValidateDoubleSlitNeedsSeparation(t *testing.T) {
	for _, text := range []string{"", "abc"} {
		p := validDoubleSlit()
		p.SlitSeparation = q(text, units.Micrometer)

		_, err := Validate(p)
		assert.ErrorIs(t, err, ErrIncomplete, "separation %q", text)
	}
}

func TestValidateSingleSlitIgnoresSeparation(t *testing.T) {
	p := validDoubleSlit()
	p.Type = models.SingleSlit
	p.SlitSeparation = q("abc", units.Micrometer)

	req, err := Validate(p)
	require.NoError(t, err)
	assert.Nil(t, req.SlitSeparation)
	assert.Empty(t, req.SlitSeparationUnit)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
		want   error
		msg    string
	}{
		{
			name:   "zero distance",
			modify: func(p *Parameters) { p.ScreenDistance = q("0", units.Meter) },
			want:   ErrNonPositive,
			msg:    NonPositiveMessage,
		},
		{
			name:   "negative separation",
			modify: func(p *Parameters) { p.SlitSeparation = q("-1", units.Micrometer) },
			want:   ErrNonPositive,
			msg:    NonPositiveMessage,
		},
		{
			name:   "infinite wavelength",
			modify: func(p *Parameters) { p.Wavelength.Value = math.Inf(1) },
			want:   ErrIncomplete,
			msg:    IncompleteMessage,
		},
		{
			name:   "unknown type",
			modify: func(p *Parameters) { p.Type = "triple_slit" },
			want:   ErrUnknownType,
			msg:    `Error: unknown simulation type: "triple_slit"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validDoubleSlit()
			tt.modify(&p)

			_, err := Validate(p)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}
