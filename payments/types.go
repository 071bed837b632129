package payments

import "github.com/shopspring/decimal"

// DefaultHolderDocument is sent when the buyer gave no CPF.
const DefaultHolderDocument = "00000000000"

// StatusApproved is the processor status for a confirmed purchase.
const StatusApproved = "APPROVED"

type Card struct {
	Number      string
	CVV         string
	ExpiryMonth string
	ExpiryYear  string
	HolderName  string
}

type Customer struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	ZipCode    string
}

type Item struct {
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
}

type ChargeRequest struct {
	Card     Card
	Customer Customer
	Address  Address
	Amount   decimal.Decimal
	Items    []Item
	Metadata map[string]string
}

// Transaction is the processor's answer to a purchase, reported verbatim.
type Transaction struct {
	ID     string
	Status string
	Raw    []byte
}

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
