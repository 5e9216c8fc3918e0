package registry

import (
	"github.com/go-viper/mapstructure/v2"
)

// Decode copies opts into the option struct pointed to by target. Field names
// come from `mapstructure` tags; unknown keys are rejected and scalar values
// are lifted into slices.
func Decode(opts Options, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]interface{}(opts))
}
