package models

// Reserved category ids.
const (
	OpeningBalanceCategoryID = "0"
	LoanCategoryID           = "loan_category"
)

// CategoryRole is how the engine treats a category
type CategoryRole int

const (
	CategoryOrdinary CategoryRole = iota
	CategoryOpeningBalance
	CategoryLoanFacility
)

func (r CategoryRole) String() string {
	switch r {
	case CategoryOrdinary:
		return "ordinary"
	case CategoryOpeningBalance:
		return "opening-balance"
	case CategoryLoanFacility:
		return "loan-facility"
	default:
		return "unknown"
	}
}

// RoleOfCategory classifies a category id.
func RoleOfCategory(id string) CategoryRole {
	switch id {
	case OpeningBalanceCategoryID:
		return CategoryOpeningBalance
	case LoanCategoryID:
		return CategoryLoanFacility
	default:
		return CategoryOrdinary
	}
}

// Category represents a user classification for transactions
type Category struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          TransactionType `json:"type"`
	Icon          string          `json:"icon"`
	SubCategories []string        `json:"subCategories"`
}

// Role returns the engine role of c.
func (c Category) Role() CategoryRole {
	return RoleOfCategory(c.ID)
}

// OpeningBalanceCategory is always present and never deletable.
func OpeningBalanceCategory() Category {
	return Category{
		ID:            OpeningBalanceCategoryID,
		Name:          "Opening Balance",
		Type:          Income,
		Icon:          "Wallet",
		SubCategories: []string{},
	}
}

// LoanCategory groups every loan facility and its children.
func LoanCategory() Category {
	return Category{
		ID:            LoanCategoryID,
		Name:          "Loans",
		Type:          Income,
		Icon:          "Banknote",
		SubCategories: []string{"Personal Loan", "Credit", "Adjustment"},
	}
}

// DefaultCategories returns the categories of a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		OpeningBalanceCategory(),
		{ID: "1", Name: "Salary", Type: Income, Icon: "Briefcase", SubCategories: []string{"Monthly Salary", "Bonus", "Overtime"}},
		{ID: "2", Name: "Freelance", Type: Income, Icon: "Laptop", SubCategories: []string{"Project", "Hourly", "Consulting"}},
		{ID: "3", Name: "Gifts", Type: Income, Icon: "Gift", SubCategories: []string{"Birthday", "Wedding", "Donation"}},
		{ID: "4", Name: "Food", Type: Expense, Icon: "Utensils", SubCategories: []string{"Groceries", "Restaurants", "Coffee & Snacks", "Delivery"}},
		{ID: "5", Name: "Transport", Type: Expense, Icon: "Car", SubCategories: []string{"Fuel", "Public Transport", "Taxi/Uber", "Maintenance", "Parking"}},
		{ID: "6", Name: "Housing", Type: Expense, Icon: "Home", SubCategories: []string{"Rent", "Utilities", "Maintenance", "Internet", "Furniture"}},
		{ID: "7", Name: "Entertainment", Type: Expense, Icon: "Film", SubCategories: []string{"Movies", "Games", "Subscriptions", "Hobbies", "Events"}},
		{ID: "8", Name: "Shopping", Type: Expense, Icon: "ShoppingBag", SubCategories: []string{"Clothing", "Electronics", "Personal Care", "Health & Beauty"}},
	}
}
