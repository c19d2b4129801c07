package research

import (
	"fmt"
	"strings"

	"github.com/poiesic/prospect/core"
)

// companyText renders a company profile as prose for embedding. Empty
// fields get explicit "Unknown" markers so retrieval can still match on
// the field label.
func companyText(company *core.CompanyProfile) string {
	parts := []string{
		fmt.Sprintf("Company: %s", company.Name),
		fmt.Sprintf("Industry: %s", orUnknown(company.Industry, "Unknown")),
		fmt.Sprintf("Description: %s", orUnknown(company.Description, "No description available")),
		fmt.Sprintf("Size: %s", orUnknown(company.Size, "Unknown size")),
		fmt.Sprintf("Location: %s", orUnknown(company.Location, "Unknown location")),
		fmt.Sprintf("Founded: %s", orUnknown(company.Founded, "Unknown founding year")),
		fmt.Sprintf("Website: %s", orUnknown(company.Website, "No website")),
		fmt.Sprintf("Employee Count: %d", company.EmployeeCount),
	}
	if company.Funding != "" {
		parts = append(parts, fmt.Sprintf("Funding: %s", company.Funding))
	}
	return strings.Join(parts, ". ")
}

// contactText renders a contact profile as prose for embedding.
func contactText(contact *core.ContactProfile) string {
	parts := []string{
		fmt.Sprintf("Person: %s", contact.Name),
		fmt.Sprintf("Title: %s", orUnknown(contact.Title, "Unknown title")),
		fmt.Sprintf("Company: %s", contact.Company),
		fmt.Sprintf("Department: %s", orUnknown(contact.Department, "Unknown department")),
		fmt.Sprintf("Seniority: %s", orUnknown(contact.Seniority, "Unknown seniority")),
		fmt.Sprintf("Location: %s", orUnknown(contact.Location, "Unknown location")),
	}
	if contact.Email != "" {
		parts = append(parts, fmt.Sprintf("Email: %s", contact.Email))
	}
	if contact.Phone != "" {
		parts = append(parts, fmt.Sprintf("Phone: %s", contact.Phone))
	}
	return strings.Join(parts, ". ")
}

func orUnknown(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
