package plugin

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/alexisbeaulieu97/etlrun/internal/validation"
	etlerrors "github.com/alexisbeaulieu97/etlrun/pkg/errors"
)

// DecodeParams decodes params into out using `mapstructure` tags and then
// validates out. Unknown keys are rejected.
func DecodeParams(field string, params Params, out any) error {
	if err := decode(params, out); err != nil {
		return etlerrors.NewValidationError(field, err.Error(), err)
	}
	return validation.Struct(field, out)
}

func decode(input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return decoder.Decode(input)
}
