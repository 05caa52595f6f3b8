package view_test

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pfcopilot/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

func TestTransactions_EmptyState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := view.NewTransactionsModel(view.NewMockClient(ctrl))

	assert.Contains(t, m.View(), "No transactions found. Upload a CSV file to get started.")
	assert.False(t, m.Editing())
}

func TestTransactions_CapsAtFiftyRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txs := make([]api.Transaction, 60)
	for i := range txs {
		txs[i] = api.Transaction{ID: i + 1, Description: fmt.Sprintf("row %d", i+1), Amount: -1}
	}

	m := view.NewTransactionsModel(view.NewMockClient(ctrl)).WithTransactions(txs)

	assert.Equal(t, 50, m.RowCount())

	m = m.WithTransactions(txs[:10])
	assert.Equal(t, 10, m.RowCount())
}

func TestTransactions_CategoryEditCommitsSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := view.NewMockClient(ctrl)
	client.EXPECT().ListCategories(gomock.Any()).Return([]api.Category{
		{ID: 1, Name: "Groceries"},
		{ID: 2, Name: "Transport"},
	}, nil)
	client.EXPECT().
		UpdateTransaction(gomock.Any(), 7, api.UpdateParams{CategoryID: 2}).
		Return(&api.Transaction{ID: 7, Description: "Bus ticket"}, nil)

	groceries := 1
	base := view.NewTransactionsModel(client).WithTransactions([]api.Transaction{
		{ID: 7, Description: "Bus ticket", Amount: -2.40, CategoryID: &groceries},
	})

	var m tea.Model = base
	m = initModel(t, m)

	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.True(t, m.(view.TransactionsModel).Editing())

	// Move the selection from Groceries to Transport and commit.
	m, _ = pressKey(t, m, tea.KeyDown)
	m, seen := pressKey(t, m, tea.KeyEnter)

	assert.False(t, m.(view.TransactionsModel).Editing())
	assert.True(t, sawMsg[view.TransactionSavedMsg](seen))
}

func TestTransactions_CategoryEditCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := view.NewMockClient(ctrl)
	client.EXPECT().ListCategories(gomock.Any()).Return([]api.Category{
		{ID: 1, Name: "Groceries"},
	}, nil)

	groceries := 1
	base := view.NewTransactionsModel(client).WithTransactions([]api.Transaction{
		{ID: 7, Description: "Bus ticket", Amount: -2.40, CategoryID: &groceries},
	})

	var m tea.Model = base
	m = initModel(t, m)

	m, _ = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.True(t, m.(view.TransactionsModel).Editing())

	m, seen := pressKey(t, m, tea.KeyEsc)

	assert.False(t, m.(view.TransactionsModel).Editing())
	assert.False(t, sawMsg[view.TransactionSavedMsg](seen))
}
