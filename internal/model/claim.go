package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Claim represents a submitted assertion of ownership against an item,
// pending staff adjudication. ItemID is a weak reference: if the item is
// deleted the claim becomes orphaned and is dropped from admin views.
type Claim struct {
	ID            string     `json:"id"`
	ItemID        string     `json:"item_id"`
	ClaimantName  string     `json:"claimant_name"`
	ClaimantEmail string     `json:"claimant_email"`
	UniqueDetail  string     `json:"unique_detail"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`

	// Joined item fields (not always populated).
	ItemTitle       string `json:"item_title,omitempty"`
	ItemBuilding    string `json:"item_building,omitempty"`
	ItemDescription string `json:"item_description,omitempty"`
}

// Claim statuses.
const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimRejected = "rejected"
	ClaimReturned = "returned"
)

// DefaultEmailDomain is the institutional domain claimant emails must use.
const DefaultEmailDomain = "umanitoba.ca"

// ClaimSubmission holds the raw fields of a public claim submission.
type ClaimSubmission struct {
	ItemID        string
	ClaimantName  string
	ClaimantEmail string
	UniqueDetail  string
}

// Normalize trims all fields and lower-cases the email.
func (s *ClaimSubmission) Normalize() {
	s.ClaimantName = strings.TrimSpace(s.ClaimantName)
	s.ClaimantEmail = strings.ToLower(strings.TrimSpace(s.ClaimantEmail))
	s.UniqueDetail = strings.TrimSpace(s.UniqueDetail)
}

// Validate checks a normalized submission against the institutional email
// domain, returning field-keyed errors for every failing field.
func (s *ClaimSubmission) Validate(emailDomain string) ValidationErrors {
	errs := ValidationErrors{}
	if s.ClaimantName == "" {
		errs["name"] = "name is required"
	}
	if s.ClaimantEmail == "" {
		errs["email"] = "email is required"
	} else if !emailPattern(emailDomain).MatchString(s.ClaimantEmail) {
		errs["email"] = fmt.Sprintf("email must be @%s format", emailDomain)
	}
	if s.UniqueDetail == "" {
		errs["uniqueDetail"] = "unique identifying detail is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func emailPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[^@\s]+@` + regexp.QuoteMeta(domain) + `$`)
}
