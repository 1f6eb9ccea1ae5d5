package projection

import (
	"testing"

	"github.com/hupe1980/interviewmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQA_QuestionThenScore(t *testing.T) {
	p := NewQA()

	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").QuestionAsked(1, "Explain channels.", "concurrency").Seq(1).Build()))
	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").ResponseScored(1, "typed conduits", 80, 70, 75).Seq(2).Build()))

	row, ok := p.Get("sess-1", 1)
	require.True(t, ok)
	assert.Equal(t, "Explain channels.", row.QuestionText)
	assert.Equal(t, "concurrency", row.QuestionCategory)
	assert.Equal(t, "typed conduits", row.AnswerText)
	require.NotNil(t, row.Score)
	assert.Equal(t, 75.0, *row.Score)
	assert.Equal(t, "test reasoning", row.Reasoning)
	assert.Zero(t, p.Anomalies())
}

func TestQA_ScoreWithoutQuestionIsSkipped(t *testing.T) {
	p := NewQA()

	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").ResponseScored(7, "orphan", 50, 50, 50).Seq(1).Build()))

	_, ok := p.Get("sess-1", 7)
	assert.False(t, ok, "no row may be invented for an unknown question")
	assert.Equal(t, 1, p.Anomalies())
}

func TestQA_MissingQuestionNumberIsSoftAnomaly(t *testing.T) {
	p := NewQA()

	ev := testutil.NewEventBuilder("sess-1").QuestionAsked(1, "q", "general").DropData("question_number").Seq(1).Build()
	require.NoError(t, p.Handle(ev))
	assert.Equal(t, 1, p.Anomalies())
	assert.Empty(t, p.Rows("sess-1"))
}

func TestQA_RowsSortedByQuestionNumber(t *testing.T) {
	p := NewQA()
	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").QuestionAsked(2, "second", "general").Seq(3).Build()))
	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").QuestionAsked(1, "first", "general").Seq(1).Build()))
	require.NoError(t, p.Handle(testutil.NewEventBuilder("other").QuestionAsked(1, "elsewhere", "general").Seq(1).Build()))

	rows := p.Rows("sess-1")
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].QuestionText)
	assert.Equal(t, "second", rows[1].QuestionText)
}

func TestQA_GetReturnsCopy(t *testing.T) {
	p := NewQA()
	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").QuestionAsked(1, "q", "general").Seq(1).Build()))
	require.NoError(t, p.Handle(testutil.NewEventBuilder("sess-1").ResponseScored(1, "a", 60, 60, 60).Seq(2).Build()))

	row, _ := p.Get("sess-1", 1)
	*row.Score = 999
	row.QuestionText = "mutated"

	fresh, _ := p.Get("sess-1", 1)
	assert.Equal(t, 60.0, *fresh.Score)
	assert.Equal(t, "q", fresh.QuestionText)
}
