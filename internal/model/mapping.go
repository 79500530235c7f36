package model

// SecurityInfo describes one listed security from the securities mapping file.
type SecurityInfo struct {
	SecurityID  string
	ISIN        string
	Symbol      string
	CompanyName string
	Sector      string
}

// SecurityMapping is the bidirectional lookup built from the mapping file:
// security id -> isin, and isin -> full security info. ISINs are upper-cased
// and trimmed on both sides.
type SecurityMapping struct {
	IDToISIN map[string]string
	ByISIN   map[string]SecurityInfo
}

// ISINFor resolves a raw security id to its ISIN.
func (m *SecurityMapping) ISINFor(securityID string) (string, bool) {
	if m == nil || m.IDToISIN == nil {
		return "", false
	}
	isin, ok := m.IDToISIN[securityID]
	return isin, ok
}

// Info returns the security info for an ISIN.
func (m *SecurityMapping) Info(isin string) (SecurityInfo, bool) {
	if m == nil || m.ByISIN == nil {
		return SecurityInfo{}, false
	}
	info, ok := m.ByISIN[isin]
	return info, ok
}
