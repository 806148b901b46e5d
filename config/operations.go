package config

import (
	"fmt"
)

// Operations selects which groups of mutations the endpoint exposes.
type Operations int

const (
	CourseWrite Operations = 1 << iota
	ChapterWrite
	MembershipWrite
	CourseJoin
)

const AllOperations = CourseWrite | ChapterWrite | MembershipWrite | CourseJoin

func Ops(ops ...string) (Operations, error) {
	var o Operations
	err := o.Add(ops...)
	return o, err
}

func (o *Operations) Set(ops Operations)             { *o |= ops }
func (o *Operations) Clear(ops Operations)           { *o &= ^ops }
func (o Operations) IsSupported(ops Operations) bool { return o&ops != 0 }

func (o *Operations) Add(ops ...string) error {
	for _, op := range ops {
		switch op {
		case "CourseWrite":
			o.Set(CourseWrite)
		case "ChapterWrite":
			o.Set(ChapterWrite)
		case "MembershipWrite":
			o.Set(MembershipWrite)
		case "CourseJoin":
			o.Set(CourseJoin)
		default:
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}
