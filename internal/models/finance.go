package models

import "time"

// FeeType categorises a fee structure line.
type FeeType string

const (
	FeeTuition        FeeType = "tuition"
	FeeRegistration   FeeType = "registration"
	FeeExam           FeeType = "exam"
	FeeDataManagement FeeType = "data_management"
	FeeSports         FeeType = "sports"
	FeeLaboratory     FeeType = "laboratory"
	FeeExtraLesson    FeeType = "extra_lesson"
	FeeFieldTrip      FeeType = "field_trip"
	FeeGraduation     FeeType = "graduation"
	FeeOther          FeeType = "other"
)

// FeeStructure defines one fee line for a program level at a school.
// (school, program level, fee type) is unique.
type FeeStructure struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	ProgramLevel string    `db:"program_level" json:"program_level"`
	FeeType      FeeType   `db:"fee_type" json:"fee_type"`
	IsOptional   bool      `db:"is_optional" json:"is_optional"`
	Amount       float64   `db:"amount" json:"amount"`
	Description  *string   `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceStatus tracks payment progress on an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "Pending"
	InvoicePartial InvoiceStatus = "Partial"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// Invoice bills a student's fees for a session. The invoice ID is
// generated once at creation and never changes.
type Invoice struct {
	InvoiceID    string        `db:"invoice_id" json:"invoice_id"`
	SchoolID     string        `db:"school_id" json:"school_id"`
	StudentID    string        `db:"student_id" json:"student_id"`
	ProgramLevel string        `db:"program_level" json:"program_level"`
	InvoiceDate  time.Time     `db:"invoice_date" json:"invoice_date"`
	DueDate      time.Time     `db:"due_date" json:"due_date"`
	TotalAmount  float64       `db:"total_amount" json:"total_amount"`
	Status       InvoiceStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "Cash"
	PayCheck        PaymentMethod = "Check"
	PayOnline       PaymentMethod = "Online"
	PayBankTransfer PaymentMethod = "Bank Transfer"
	PayPOS          PaymentMethod = "POS"
)

// Payment records money received against an invoice.
type Payment struct {
	ID            string        `db:"id" json:"id"`
	InvoiceID     string        `db:"invoice_id" json:"invoice_id"`
	SchoolID      string        `db:"school_id" json:"school_id"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentDate   time.Time     `db:"payment_date" json:"payment_date"`
	Method        PaymentMethod `db:"payment_method" json:"payment_method"`
	ReceiptNumber string        `db:"receipt_number" json:"receipt_number"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// ExpenseCategory groups school expenses.
type ExpenseCategory struct {
	ID          string  `db:"id" json:"id"`
	SchoolID    string  `db:"school_id" json:"school_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// SchoolExpense records a spend against a category.
type SchoolExpense struct {
	ID            string    `db:"id" json:"id"`
	SchoolID      string    `db:"school_id" json:"school_id"`
	CategoryID    string    `db:"category_id" json:"category_id"`
	Description   string    `db:"description" json:"description"`
	Amount        float64   `db:"amount" json:"amount"`
	DateIncurred  time.Time `db:"date_incurred" json:"date_incurred"`
	ReceiptNumber string    `db:"receipt_number" json:"receipt_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// InvoiceFilter defines filters for invoice listing.
type InvoiceFilter struct {
	SchoolID  string
	StudentID string
	Status    InvoiceStatus
	Page      int
	PageSize  int
}
