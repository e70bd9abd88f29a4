package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the format of Profile.DOB
const DateLayout = "2006-01-02"

var (
	ErrMissingDOB    = errors.New("please select your date of birth")
	ErrInvalidDOB    = errors.New("date of birth must be YYYY-MM-DD")
	ErrMissingName   = errors.New("please enter your name")
	ErrInvalidPhone  = errors.New("phone number must be 10 digits")
	ErrMissingGender = errors.New("please select your gender")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Profile holds the user-entered profile fields handed to later pages
type Profile struct {
	Name   string `json:"name" bson:"name"`
	DOB    string `json:"dob" bson:"dob"`
	Email  string `json:"email" bson:"email"`
	Phone  string `json:"phone" bson:"phone"`
	Gender string `json:"gender" bson:"gender"`
	Bio    string `json:"bio" bson:"bio"`
}

// Validate checks the fields in the order the form reports them
func (p *Profile) Validate() error {
	if p.DOB == "" {
		return ErrMissingDOB
	}
	if _, err := time.Parse(DateLayout, p.DOB); err != nil {
		return ErrInvalidDOB
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if !phonePattern.MatchString(p.Phone) {
		return ErrInvalidPhone
	}
	if p.Gender == "" {
		return ErrMissingGender
	}
	return nil
}

// planets is indexed by (day-1) % 9
var planets = [9]string{"sun", "moon", "jupiter", "neptune", "mercury", "venus", "uranus", "saturn", "mars"}

// PlanetRoute returns the page the profile continues to, chosen by the
// day of month of the birth date. An unparsable date goes to details.
func (p *Profile) PlanetRoute() string {
	dob, err := time.Parse(DateLayout, p.DOB)
	if err != nil {
		return "/details"
	}
	return "/" + planets[(dob.Day()-1)%9]
}
