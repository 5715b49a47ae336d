// internal/kyb/resize.go
//
// The ownership section lets the user declare how many directors, owners,
// and signatories the business has, then fills in one entry per declared
// person. Resizing keeps what was already typed: existing entries survive,
// new slots are padded with defaults, extras are truncated.

package kyb

// DefaultDirector is the padding entry for a grown directors list.
func DefaultDirector() Director {
	return Director{Position: "Director"}
}

// DefaultOwner is the padding entry for a grown owners list. 25% is the
// minimum reportable stake.
func DefaultOwner() BeneficialOwner {
	return BeneficialOwner{OwnershipPercentage: 25}
}

// DefaultSignatory is the padding entry for a grown signatories list.
func DefaultSignatory() AuthorizedSignatory {
	return AuthorizedSignatory{}
}

// resize adjusts entries to length n, preserving the existing prefix and
// padding with fresh defaults. Negative n is treated as zero.
func resize[T any](entries []T, n int, pad func() T) []T {
	if n < 0 {
		n = 0
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		if i < len(entries) {
			out = append(out, entries[i])
			continue
		}
		out = append(out, pad())
	}
	return out
}

// ResizeDirectors sets the declared count and adjusts the list to match.
func ResizeDirectors(d Directors, n int) Directors {
	d.DirectorsList = resize(d.DirectorsList, n, DefaultDirector)
	d.NumberOfDirectors = len(d.DirectorsList)
	return d
}

// ResizeOwners sets the declared count and adjusts the list to match.
func ResizeOwners(o BeneficialOwners, n int) BeneficialOwners {
	o.OwnersList = resize(o.OwnersList, n, DefaultOwner)
	o.NumberOfOwners = len(o.OwnersList)
	return o
}

// ResizeSignatories sets the declared count and adjusts the list to match.
func ResizeSignatories(s AuthorizedSignatories, n int) AuthorizedSignatories {
	s.SignatoriesList = resize(s.SignatoriesList, n, DefaultSignatory)
	s.NumberOfSignatories = len(s.SignatoriesList)
	return s
}
