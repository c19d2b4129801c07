package badger

import (
	"fmt"

	"github.com/poiesic/prospect/core"
)

// Key prefixes for different data types
const (
	companyPrefix  = "comrec"
	contactPrefix  = "ctcrec"
	documentPrefix = "docrec"
)

// makeCompanyKey generates a key for a company profile by its name-derived ID.
func makeCompanyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", companyPrefix, id))
}

// makeContactKey generates a composite key for a contact.
// Format: prefix:companyID:contactID. Contacts for one company share a
// prefix so they can be retrieved with a single iteration.
func makeContactKey(companyID, contactID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d:%d", contactPrefix, companyID, contactID))
}

// makeContactCompanyPrefix generates the iteration prefix for all contacts
// of one company.
func makeContactCompanyPrefix(companyID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d:", contactPrefix, companyID))
}

// makeDocumentKey generates a key for a vector document by its
// content-derived ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
