package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"banking-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountEntry pairs a stored account with its insertion sequence number.
// The sequence is the final list tie-break so ordering stays deterministic
// even when accounts share a sort key and a creation timestamp.
type accountEntry struct {
	account *models.Account
	seq     uint64
}

// memoryAccountRepository is an in-memory implementation of
// AccountRepositoryInterface. Each instance owns its own state, so tests
// can construct a fresh repository without sharing data.
type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*accountEntry
	nextSeq  uint64
}

// NewMemoryAccountRepository creates an empty in-memory account repository
func NewMemoryAccountRepository() AccountRepositoryInterface {
	return &memoryAccountRepository{
		accounts: make(map[uuid.UUID]*accountEntry),
	}
}

func (r *memoryAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Version == 0 {
		account.Version = 1
	}

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if err := account.Validate(); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("failed to create account: duplicate id %s", account.ID)
	}

	r.nextSeq++
	stored := *account
	r.accounts[account.ID] = &accountEntry{account: &stored, seq: r.nextSeq}
	return nil
}

func (r *memoryAccountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	copied := *entry.account
	return &copied, nil
}

func (r *memoryAccountRepository) List(filter *models.AccountsFilter) ([]models.Account, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter.Normalize()

	matched := make([]accountEntry, 0, len(r.accounts))
	term := strings.ToLower(filter.SearchTerm)
	for _, entry := range r.accounts {
		if term != "" && !strings.Contains(strings.ToLower(entry.account.Name), term) {
			continue
		}
		if filter.Active != nil && entry.account.Active != *filter.Active {
			continue
		}
		matched = append(matched, *entry)
	}

	sortEntries(matched, filter)

	total := int64(len(matched))

	start := filter.Offset()
	if start >= len(matched) {
		return []models.Account{}, total, nil
	}

	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]models.Account, 0, end-start)
	for _, entry := range matched[start:end] {
		page = append(page, *entry.account)
	}

	return page, total, nil
}

func (r *memoryAccountRepository) Update(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.accounts[account.ID]
	if !ok {
		return ErrAccountNotFound
	}

	if entry.account.Version != account.Version {
		return ErrStaleAccount
	}

	account.Version++
	account.UpdatedAt = time.Now().UTC()

	copied := *account
	entry.account = &copied
	return nil
}

func (r *memoryAccountRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return ErrAccountNotFound
	}

	delete(r.accounts, id)
	return nil
}

func (r *memoryAccountRepository) ExecuteTransfer(fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Account, *models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromEntry, ok := r.accounts[fromID]
	if !ok {
		return nil, nil, &TransferError{Side: TransferSideSource, Err: ErrAccountNotFound}
	}

	toEntry, ok := r.accounts[toID]
	if !ok {
		return nil, nil, &TransferError{Side: TransferSideDestination, Err: ErrAccountNotFound}
	}

	// Work on copies so a failed leg leaves stored state untouched
	from := *fromEntry.account
	to := *toEntry.account

	if err := from.Withdraw(amount); err != nil {
		return nil, nil, &TransferError{Side: TransferSideSource, Err: err}
	}
	if err := to.Deposit(amount); err != nil {
		return nil, nil, &TransferError{Side: TransferSideDestination, Err: err}
	}

	now := time.Now().UTC()
	from.Version++
	from.UpdatedAt = now
	to.Version++
	to.UpdatedAt = now

	fromCopy := from
	toCopy := to
	fromEntry.account = &fromCopy
	toEntry.account = &toCopy

	return &from, &to, nil
}

func sortEntries(entries []accountEntry, filter *models.AccountsFilter) {
	desc := strings.EqualFold(filter.SortOrder, models.SortOrderDesc)

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].account, entries[j].account
		if desc {
			a, b = b, a
		}

		switch filter.SortBy {
		case models.SortByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case models.SortByBalance:
			if !a.Balance.Equal(b.Balance) {
				return a.Balance.LessThan(b.Balance)
			}
		case models.SortByUpdatedDate:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}

		// Tie-break on creation time, then insertion order, ascending
		// regardless of direction
		ai, bi := entries[i].account, entries[j].account
		if !ai.CreatedAt.Equal(bi.CreatedAt) {
			return ai.CreatedAt.Before(bi.CreatedAt)
		}
		return entries[i].seq < entries[j].seq
	})
}
