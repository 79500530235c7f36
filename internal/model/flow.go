package model

// FlowRecord is one institutional end-of-day flow observation: how much one
// investor class bought and sold of one security on one date. Turnover values
// are monetary.
type FlowRecord struct {
	TradeDate     string
	InvestorClass string
	SecurityID    string
	BuyTurnover   float64
	SellTurnover  float64
}

// The eleven fixed single-letter investor-class codes used by the exchange
// flow files. The codes and the derived subsets below are empirical inputs
// reproduced verbatim; do not re-derive them.
const (
	ClassBanks      = "B" // banks nostro
	ClassDealers    = "D" // broker-dealers
	ClassProvident  = "F" // provident funds
	ClassForeign    = "G" // foreign investors
	ClassInsurance  = "I" // insurance companies
	ClassLocalInst  = "L" // other local institutions
	ClassMutual     = "M" // mutual funds
	ClassNostro     = "N" // corporate nostro
	ClassPension    = "P" // pension funds
	ClassRetail     = "R" // retail
	ClassPortfolio  = "T" // portfolio trust managers
)

// InvestorClassNames maps class codes to display names.
var InvestorClassNames = map[string]string{
	ClassBanks:     "Banks Nostro",
	ClassDealers:   "Broker-Dealers",
	ClassProvident: "Provident Funds",
	ClassForeign:   "Foreign Investors",
	ClassInsurance: "Insurance Companies",
	ClassLocalInst: "Local Institutions",
	ClassMutual:    "Mutual Funds",
	ClassNostro:    "Corporate Nostro",
	ClassPension:   "Pension Funds",
	ClassRetail:    "Retail",
	ClassPortfolio: "Portfolio Managers",
}

// SmartMoneyClasses is the five-member subset presumed to trade on superior
// information. Their turnover feeds the smart-money totals.
var SmartMoneyClasses = map[string]bool{
	ClassProvident: true,
	ClassInsurance: true,
	ClassMutual:    true,
	ClassPension:   true,
	ClassPortfolio: true,
}

// ContrarianClass is the designated foreign-flow class whose direction is
// compared against the smart-money composite.
const ContrarianClass = ClassForeign

// ClassWeights are the fixed reliability weights used by the weighted
// consensus. The foreign-flow class is weighted highest.
var ClassWeights = map[string]float64{
	ClassForeign:   1.5,
	ClassProvident: 1.0,
	ClassPension:   1.0,
	ClassInsurance: 1.0,
	ClassMutual:    0.9,
	ClassPortfolio: 0.8,
	ClassBanks:     0.6,
	ClassLocalInst: 0.6,
	ClassDealers:   0.5,
	ClassNostro:    0.5,
	ClassRetail:    0.5,
}

// IsSmartMoney reports whether a class code belongs to the smart-money subset.
func IsSmartMoney(class string) bool {
	return SmartMoneyClasses[class]
}
