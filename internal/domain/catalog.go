package domain

import "slices"

// Field names used by rules, the transform and the renderers.
const (
	FieldCustomerName         = "Customer Name"
	FieldCustomerEmail        = "Customer Email"
	FieldCustomerContact      = "Customer Contact"
	FieldCustomerNationality  = "Customer Nationality"
	FieldCustomerCountry      = "Customer Country"
	FieldArrivalFlight        = "Arrival Flight"
	FieldDepartureFlight      = "Departure Flight"
	FieldArrivalDate          = "Arrival Date"
	FieldDepartureDate        = "Departure Date"
	FieldNights               = "No. of Nights"
	FieldHotelCategory        = "Hotel Category"
	FieldOtherHotelCategory   = "Other Hotel Category"
	FieldRoomSelection        = "Room Selection"
	FieldBasis                = "Basis"
	FieldPax                  = "No of pax"
	FieldChildren             = "Children"
	FieldTourType             = "Tour type"
	FieldTransport            = "Transport"
	FieldSiteInterests        = "Site / Interests"
	FieldOtherService         = "Other service"
	FieldSpecialArrangements  = "Special Arrangements"
	FieldSpecialArrangementDt = "Special Arrangements Date"
)

// Sentinel option values.
const (
	OptionOther = "Other"
	OptionNone  = "None"
)

type Kind string

const (
	KindText         Kind = "text"
	KindDate         Kind = "date"
	KindSelect       Kind = "select"
	KindMultiSelect  Kind = "multiselect"
	KindRoomSelector Kind = "room-selector"
	KindDisplay      Kind = "display"
)

// Condition makes a dependent field required based on its parent's value.
// Exactly one of Equals / NotIn is meaningful; with NotIn the parent must also be non-empty.
type Condition struct {
	Field   string   `yaml:"field" json:"field"`
	Equals  string   `yaml:"equals,omitempty" json:"equals,omitempty"`
	NotIn   []string `yaml:"not_in,omitempty" json:"not_in,omitempty"`
	Message string   `yaml:"message" json:"message"`
}

// FieldSpec is the immutable metadata of one field.
type FieldSpec struct {
	Name           string         `yaml:"name" json:"name"`
	Kind           Kind           `yaml:"kind" json:"kind"`
	Options        []string       `yaml:"options,omitempty" json:"options,omitempty"`
	Placeholder    string         `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help           string         `yaml:"help,omitempty" json:"help,omitempty"`
	AllowCustom    bool           `yaml:"allow_custom,omitempty" json:"allowCustom,omitempty"`
	RoomCategories []RoomCategory `yaml:"room_categories,omitempty" json:"roomCategories,omitempty"`
	RoomTypes      []RoomType     `yaml:"room_types,omitempty" json:"roomTypes,omitempty"`
	// Parent names the field whose section owns this one when it is not listed in any section.
	Parent       string     `yaml:"parent,omitempty" json:"parent,omitempty"`
	RequiredWhen *Condition `yaml:"required_when,omitempty" json:"requiredWhen,omitempty"`
}

// Section is one wizard page.
type Section struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []string `yaml:"fields" json:"fields"`
	Required    []string `yaml:"required" json:"required"`
}

func (s Section) Has(field string) bool { return slices.Contains(s.Fields, field) }

func (s Section) IsRequired(field string) bool { return slices.Contains(s.Required, field) }
