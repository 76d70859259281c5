package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to act on the target tenant.
var ErrForbidden = errors.New("forbidden")

// Ledger invariant violations. These are rejected synchronously at the engine
// boundary; nothing is ever posted "to fix later".

// ErrUnbalancedEntry indicates a proposed journal entry whose debits do not equal its credits.
var ErrUnbalancedEntry = errors.New("journal entry debits do not equal credits")

// ErrInvalidAccount indicates a line referencing an inactive account, an account
// belonging to another tenant, or accounts spanning funds outside a transfer.
var ErrInvalidAccount = errors.New("invalid account for journal entry")

// ErrNonPositiveAmount indicates a money amount that must be strictly positive but is not.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// ErrEmptyInvoice indicates an invoice issued with no line items.
var ErrEmptyInvoice = errors.New("invoice must have at least one line")

// ErrOverApplication indicates a payment application exceeding the payment amount
// or an invoice's outstanding balance.
var ErrOverApplication = errors.New("application exceeds payment or invoice balance")

// ErrAlreadyReversed indicates a reversal attempted on an entry that already has one.
var ErrAlreadyReversed = errors.New("journal entry already reversed")

// ErrConcurrentModification indicates a row lock or serialization conflict.
// The payment ledger retries these internally a bounded number of times.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// ErrInvoiceAlreadyPaid indicates a void attempted on an invoice with payments applied.
var ErrInvoiceAlreadyPaid = errors.New("invoice has payments applied")
