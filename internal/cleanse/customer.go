package cleanse

// CleanseCustomer projects one already-deduplicated CRM customer.
func CleanseCustomer(raw RawCustomer) Customer {
	return Customer{
		ID:            raw.ID.Int64,
		Key:           raw.Key,
		FirstName:     trimText(raw.FirstName),
		LastName:      trimText(raw.LastName),
		MaritalStatus: NormalizeMaritalStatus(raw.MaritalStatus),
		Gender:        NormalizeGender(raw.Gender),
		CreateDate:    raw.CreateDate,
	}
}

// CleanseCustomers deduplicates the raw set by id, latest create date
// winning, and cleanses each survivor.
func CleanseCustomers(raws []RawCustomer) []Customer {
	latest := LatestCustomers(raws)
	out := make([]Customer, len(latest))
	for i, raw := range latest {
		out[i] = CleanseCustomer(raw)
	}
	return out
}
