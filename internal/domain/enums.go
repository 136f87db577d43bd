package domain

import "fmt"

// EntityKind is one of the top-level deletable record types.
type EntityKind string

const (
	EntityKindCase       EntityKind = "case"
	EntityKindInvoice    EntityKind = "invoice"
	EntityKindPartner    EntityKind = "partner"
	EntityKindOurCompany EntityKind = "our_company"
)

// AllEntityKinds lists every top-level kind in the order batch operations visit them.
var AllEntityKinds = []EntityKind{
	EntityKindCase,
	EntityKindInvoice,
	EntityKindPartner,
	EntityKindOurCompany,
}

func (k EntityKind) String() string { return string(k) }

func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCase, EntityKindInvoice, EntityKindPartner, EntityKindOurCompany:
		return true
	}
	return false
}

// Table returns the storage table that holds rows of this kind.
func (k EntityKind) Table() (Table, error) {
	switch k {
	case EntityKindCase:
		return TableCases, nil
	case EntityKindInvoice:
		return TableInvoices, nil
	case EntityKindPartner:
		return TablePartners, nil
	case EntityKindOurCompany:
		return TableOurCompanies, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntityKind, string(k))
	}
}

// ParseEntityKind converts a client-supplied string into an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntityKind, s)
	}
	return k, nil
}

// Table names a storage table, including dependent tables that have no EntityKind.
type Table string

const (
	TableCases         Table = "cases"
	TableCaseActions   Table = "case_actions"
	TableCaseDocuments Table = "case_documents"
	TableInvoices      Table = "invoices"
	TablePartners      Table = "partners"
	TableOurCompanies  Table = "our_companies"
)

func (t Table) String() string { return string(t) }

func (t Table) IsValid() bool {
	switch t {
	case TableCases, TableCaseActions, TableCaseDocuments,
		TableInvoices, TablePartners, TableOurCompanies:
		return true
	}
	return false
}

// Kind returns the top-level kind stored in t, or false for dependent tables.
func (t Table) Kind() (EntityKind, bool) {
	switch t {
	case TableCases:
		return EntityKindCase, true
	case TableInvoices:
		return EntityKindInvoice, true
	case TablePartners:
		return EntityKindPartner, true
	case TableOurCompanies:
		return EntityKindOurCompany, true
	}
	return "", false
}

// CaseStatus is the workflow status of a case.
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "open"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusOnHold     CaseStatus = "on_hold"
	CaseStatusCompleted  CaseStatus = "completed"
	CaseStatusCancelled  CaseStatus = "cancelled"
)

// TerminalCaseStatuses are excluded from the active case count.
var TerminalCaseStatuses = []string{
	string(CaseStatusCompleted),
	string(CaseStatusCancelled),
}

func (s CaseStatus) String() string { return string(s) }

// InvoiceStatus is the payment status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// UnpaidInvoiceStatuses are counted as outstanding.
var UnpaidInvoiceStatuses = []string{
	string(InvoiceStatusDraft),
	string(InvoiceStatusUnpaid),
}

func (s InvoiceStatus) String() string { return string(s) }

// AuditAction represents the kind of lifecycle mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionSoftDelete AuditAction = "SOFT_DELETE"
	AuditActionRestore    AuditAction = "RESTORE"
	AuditActionPurge      AuditAction = "PURGE"
	AuditActionEmptyTrash AuditAction = "EMPTY_TRASH"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionSoftDelete, AuditActionRestore, AuditActionPurge, AuditActionEmptyTrash:
		return true
	}
	return false
}

// UserRole represents the authorization level of the acting principal.
// Roles are opaque strings issued by the identity provider; the constants
// below are the ones this service knows by name.
type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleManager    UserRole = "manager"
	UserRoleStaff      UserRole = "staff"
	UserRoleSystem     UserRole = "system"
)

func (r UserRole) String() string { return string(r) }
