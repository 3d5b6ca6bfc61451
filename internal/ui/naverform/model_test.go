package naverform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequired(t *testing.T) {
	v := validateRequired("앱 비밀번호")
	assert.Error(t, v(""))
	assert.Error(t, v("   "))
	assert.NoError(t, v("abcd-efgh"))
}

func TestStart_KeepsTypedValues(t *testing.T) {
	m := New(80, 24)
	m.Start("me@naver.com", "secret")

	assert.Equal(t, "me@naver.com", m.fb.email)
	assert.Equal(t, "secret", m.fb.password)
	assert.False(t, m.Submitting())
	assert.Contains(t, m.View(), "네이버 메일 연결")
	assert.Contains(t, m.View(), "네이버 이메일")
}

func TestSubmitting_LocksForm(t *testing.T) {
	m := New(80, 24)
	m.Start("me@naver.com", "secret")
	m.SetSubmitting(true)

	assert.Contains(t, m.View(), "연결 중...")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestUnstarted(t *testing.T) {
	m := New(80, 24)
	assert.Empty(t, m.View())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.Nil(t, m.form)
}
