package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Output dimension and guidance limits accepted by the try-on model.
const (
	MinOutputSide  = 768
	MaxOutputSide  = 1536
	OutputSideStep = 64
	MinCfgScale    = 1.0
	MaxCfgScale    = 15.0
)

// ParseGarmentClass maps user shorthand to a GarmentClass.
func ParseGarmentClass(arg string) (GarmentClass, error) {
	switch strings.ToLower(arg) {
	case "full", "full_body":
		return FullBody, nil
	case "upper", "upper_body":
		return UpperBody, nil
	case "lower", "lower_body":
		return LowerBody, nil
	default:
		return "", fmt.Errorf("unknown garment class %q, expected full, upper or lower", arg)
	}
}

// ParseTryOnArgs parses the argument string of a try-on command. The first
// bare word selects the garment class, key=value pairs override the generation
// defaults: w=, h=, cfg= and seed=.
func ParseTryOnArgs(args string, defaults TryOnParams) (GarmentClass, TryOnParams, error) {
	class := FullBody
	params := defaults

	for i, field := range strings.Fields(args) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			if i != 0 {
				return "", TryOnParams{}, fmt.Errorf("unexpected argument %q", field)
			}

			c, err := ParseGarmentClass(field)
			if err != nil {
				return "", TryOnParams{}, err
			}
			class = c
			continue
		}

		switch key {
		case "w":
			v, err := strconv.Atoi(value)
			if err != nil {
				return "", TryOnParams{}, fmt.Errorf("invalid width %q", value)
			}
			params.Width = v
		case "h":
			v, err := strconv.Atoi(value)
			if err != nil {
				return "", TryOnParams{}, fmt.Errorf("invalid height %q", value)
			}
			params.Height = v
		case "cfg":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return "", TryOnParams{}, fmt.Errorf("invalid cfg scale %q", value)
			}
			params.CfgScale = v
		case "seed":
			v, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return "", TryOnParams{}, fmt.Errorf("invalid seed %q", value)
			}
			params.Seed = v
		default:
			return "", TryOnParams{}, fmt.Errorf("unknown option %q", key)
		}
	}

	if err := params.Validate(); err != nil {
		return "", TryOnParams{}, err
	}

	return class, params, nil
}

// Validate checks the parameters against the limits the try-on model accepts.
func (p TryOnParams) Validate() error {
	for _, side := range []struct {
		name  string
		value int
	}{{"width", p.Width}, {"height", p.Height}} {
		if side.value < MinOutputSide || side.value > MaxOutputSide {
			return fmt.Errorf("%s must be between %d and %d", side.name, MinOutputSide, MaxOutputSide)
		}
		if side.value%OutputSideStep != 0 {
			return fmt.Errorf("%s must be a multiple of %d", side.name, OutputSideStep)
		}
	}

	if p.CfgScale < MinCfgScale || p.CfgScale > MaxCfgScale {
		return fmt.Errorf("cfg scale must be between %.1f and %.1f", MinCfgScale, MaxCfgScale)
	}

	if p.Seed < 0 {
		return fmt.Errorf("seed must not be negative")
	}

	return nil
}
