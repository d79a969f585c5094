package export

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/financli/pkg/account"
)

// AccountMapping pins one stored account to a Beancount account name.
type AccountMapping struct {
	Type      account.Type `yaml:"type"`
	ID        int64        `yaml:"id"`
	Beancount string       `yaml:"beancount"`
}

// CategoryMapping maps a transaction category to a Beancount account.
type CategoryMapping struct {
	Category  string `yaml:"category"`
	Beancount string `yaml:"beancount"`
}

// MappingConfig is the YAML mapping file used by Beancount exports.
type MappingConfig struct {
	Accounts      []AccountMapping  `yaml:"accounts"`
	Categories    []CategoryMapping `yaml:"categories"`
	Income        string            `yaml:"income"`
	Uncategorized string            `yaml:"uncategorized"`
}

type accountKey struct {
	typ account.Type
	id  int64
}

// Mapper resolves Beancount account names for ledger entries.
type Mapper struct {
	accounts      map[accountKey]string
	categories    map[string]string
	income        string
	uncategorized string
}

// NewMapper builds a Mapper. The zero MappingConfig gives the default
// account tree.
func NewMapper(config MappingConfig) *Mapper {
	m := &Mapper{
		accounts:      make(map[accountKey]string),
		categories:    make(map[string]string),
		income:        config.Income,
		uncategorized: config.Uncategorized,
	}
	if m.income == "" {
		m.income = "Income:Uncategorized"
	}
	if m.uncategorized == "" {
		m.uncategorized = "Expenses:Uncategorized"
	}

	for _, mapping := range config.Accounts {
		m.accounts[accountKey{mapping.Type, mapping.ID}] = mapping.Beancount
	}
	for _, mapping := range config.Categories {
		m.categories[strings.ToLower(mapping.Category)] = mapping.Beancount
	}
	return m
}

// LoadMapper reads a MappingConfig from a YAML file.
func LoadMapper(fs afero.Fs, path string) (*Mapper, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var config MappingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	return NewMapper(config), nil
}

var accountRoots = map[account.Type]string{
	account.TypeBank:         "Assets:Bank",
	account.TypeCreditCard:   "Liabilities:CreditCard",
	account.TypeStoreCard:    "Liabilities:StoreCard",
	account.TypeLoan:         "Liabilities:Loan",
	account.TypeBill:         "Expenses:Bills",
	account.TypeSubscription: "Expenses:Subscriptions",
}

// Account returns the Beancount account for a stored account. Unmapped
// accounts go under their type's root, named after the provider.
func (m *Mapper) Account(t account.Type, id int64, provider string) string {
	if name := m.accounts[accountKey{t, id}]; name != "" {
		return name
	}
	root, ok := accountRoots[t]
	if !ok {
		root = "Assets:Unmapped"
	}
	return root + ":" + sanitizeAccountName(provider, id)
}

// Category returns the expense account for a category.
func (m *Mapper) Category(category string) string {
	if category == "" {
		return m.uncategorized
	}
	if name := m.categories[strings.ToLower(category)]; name != "" {
		return name
	}
	return "Expenses:" + sanitizeAccountName(category, 0)
}

// Income returns the account deposits are drawn from.
func (m *Mapper) Income() string {
	return m.income
}

// sanitizeAccountName turns free text into a Beancount account component:
// letters, digits and dashes, starting with an upper-case letter or digit.
func sanitizeAccountName(name string, id int64) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			if upper {
				r = []rune(strings.ToUpper(string(r)))[0]
			}
			sb.WriteRune(r)
			upper = false
		case r >= '0' && r <= '9', r == '-':
			if r == '-' && sb.Len() == 0 {
				continue
			}
			sb.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	if sb.Len() == 0 {
		if id > 0 {
			return fmt.Sprintf("Account%d", id)
		}
		return "Unknown"
	}
	return sb.String()
}
