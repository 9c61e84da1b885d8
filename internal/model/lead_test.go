package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLead_PhoneQueueFor_PacksSlots(t *testing.T) {
	lead := Lead{Phones: []string{"555-1111", "555-2222"}}

	pq := lead.PhoneQueueFor(42)

	assert.Equal(t, int64(42), pq.AID)
	assert.Equal(t, PhoneQueueStep, pq.Step)
	require.NotNil(t, pq.Phone1)
	require.NotNil(t, pq.Phone2)
	assert.Equal(t, "555-1111", *pq.Phone1)
	assert.Equal(t, "555-2222", *pq.Phone2)
	assert.Nil(t, pq.Phone3)
	assert.Equal(t, []string{"555-1111", "555-2222"}, pq.Numbers())
}

func TestLead_PhoneQueueFor_IgnoresExtraPhones(t *testing.T) {
	lead := Lead{Phones: []string{"1", "2", "3", "4"}}
	pq := lead.PhoneQueueFor(1)
	assert.Equal(t, []string{"1", "2", "3"}, pq.Numbers())
}

func TestLead_HasPhones(t *testing.T) {
	assert.False(t, Lead{}.HasPhones())
	assert.True(t, Lead{Phones: []string{"x"}}.HasPhones())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "address", Address{}.TableName())
	assert.Equal(t, "phonequeue", PhoneQueue{}.TableName())
	assert.Equal(t, "campaigns", Campaign{}.TableName())
	assert.Equal(t, "emoji", Emoji{}.TableName())
}

func TestNewLeadRow_CoversRequiredColumns(t *testing.T) {
	row := NewLeadRow(map[string]string{ColLeadID: "L-1", ColOwner1FirstName: ""})

	for _, col := range RequiredColumns {
		_, ok := row[col]
		assert.True(t, ok, "missing %s", col)
	}
	assert.Equal(t, "L-1", row[ColLeadID])
	assert.Equal(t, "", row[ColOwner1FirstName])

	record := LeadRecord([]string{ColLeadID, "unknown"}, row)
	assert.Equal(t, []string{"L-1", ""}, record)
}
