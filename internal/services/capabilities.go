package services

//go:generate mockgen -source=capabilities.go -destination=mocks/mocks.go -package=mocks

import "drawregistry/internal/models"

// RandomOracle supplies the draw seed.
type RandomOracle interface {
	GetRandomSeed() (uint64, error)
}

// ApplicantRegistry reports the applicant population a draw selects from.
type ApplicantRegistry interface {
	GetTotalApplicants() (uint64, error)
	GetApplicantsByCountry(country []byte) ([]models.Principal, error)
}

// ValueTransfer moves funds between ledger accounts.
type ValueTransfer interface {
	Transfer(amount uint64, from, to models.Principal) error
}
