package review

import (
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/parser"
)

// ParameterDescriptor is the part of a routine parameter the parameter rules inspect.
type ParameterDescriptor struct {
	Name         string
	Direction    parser.Direction
	HasDefault   bool
	Position     Element
	DirectionPos Element // zero when no direction was written
	TypePosition Element
}

// Describe converts parsed parameters.
func Describe(params []*parser.Parameter) []ParameterDescriptor {
	out := make([]ParameterDescriptor, 0, len(params))
	for _, p := range params {
		d := ParameterDescriptor{
			Name:         p.Name,
			Direction:    p.Direction,
			HasDefault:   p.HasDefault,
			Position:     ElementAt(p.NamePos),
			TypePosition: ElementAt(p.TypePos),
		}
		if p.HasDirection() {
			d.DirectionPos = ElementAt(p.DirectionPos)
		}
		out = append(out, d)
	}
	return out
}

// orderState tracks which parameter stages have been seen so far.
// Stages ascend OUT, IN OUT, IN, IN with default; only a regression is reported.
type orderState struct {
	seenInOut     bool
	seenIn        bool
	seenInDefault bool
}

// check returns the order violation for p, or "" when p is in order.
func (s *orderState) check(p ParameterDescriptor, exemptParameter string) string {
	switch p.Direction {
	case parser.DirectionOut:
		if s.seenInOut || s.seenIn || s.seenInDefault {
			return "OUT parameter found after other types"
		}
	case parser.DirectionInOut:
		s.seenInOut = true
		if s.seenIn || s.seenInDefault {
			return "IN OUT parameter found after other types"
		}
	case parser.DirectionIn:
		if p.Name == exemptParameter {
			return ""
		}
		if p.HasDefault {
			s.seenInDefault = true
			return ""
		}
		s.seenIn = true
		if s.seenInDefault {
			return "IN parameter found after IN with default"
		}
	}
	return ""
}

// ValidateParameters runs the direction, suffix and order checks over one
// routine's parameters and then checks their alignment.
func ValidateParameters(ctx *Context, opts options, routine string, params []ParameterDescriptor) {
	if len(params) == 0 {
		return
	}

	var names, directions, types AlignmentGroup
	exempt := opts.exemptRoutines[routine]
	state := &orderState{}

	for _, p := range params {
		line := p.Position.Line
		names = append(names, p.Position)

		if p.Direction != parser.DirectionNone {
			directions = append(directions, p.DirectionPos)
		} else {
			ctx.Report(RuleParameterDir, line, p.Name+": Parameter direction was not specified.")
		}
		types = append(types, p.TypePosition)

		if !strings.HasSuffix(p.Name, opts.suffix) {
			ctx.Report(RuleParameterSuffix, line, p.Name+": Parameter does not end with "+suffixName(opts.suffix))
		}

		if exempt {
			continue
		}
		if msg := state.check(p, opts.exemptParameter); msg != "" {
			ctx.Report(RuleParameterOrder, line, p.Name+": "+msg)
		}
	}

	CheckAlignment(ctx, CategoryParameters, names)
	CheckAlignment(ctx, CategoryDirections, directions)
	CheckAlignment(ctx, CategoryParameterTypes, types)
}

func suffixName(suffix string) string {
	if suffix == "_" {
		return "an underscore"
	}
	return "\"" + suffix + "\""
}
