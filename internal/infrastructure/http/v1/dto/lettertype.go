package dto

import (
	"suratdesa/internal/domain/lettertype"
)

// LetterTypeResponse describes a configured letter type.
type LetterTypeResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	DeskCode string `json:"deskCode"`
	Reset    string `json:"reset"`
	Fee      string `json:"fee"`
	HasRule  bool   `json:"hasRule"`
}

// FromLetterType creates response from a compiled letter type.
func FromLetterType(lt *lettertype.LetterType) *LetterTypeResponse {
	return &LetterTypeResponse{
		Code:     lt.Code,
		Name:     lt.Name,
		DeskCode: lt.DeskCode,
		Reset:    string(lt.Reset),
		Fee:      lt.Fee.StringFixed(2),
		HasRule:  lt.HasRule(),
	}
}

// FromLetterTypes maps the full catalog, preserving configuration order.
func FromLetterTypes(items []*lettertype.LetterType) []*LetterTypeResponse {
	out := make([]*LetterTypeResponse, len(items))
	for i, lt := range items {
		out[i] = FromLetterType(lt)
	}
	return out
}
