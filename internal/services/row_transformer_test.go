package services

import (
	"testing"

	"github.com/livingrent/storefront-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func koreanPriceListMapping() *models.ResolvedMapping {
	return &models.ResolvedMapping{
		ColumnMappings: models.ColumnMapping{
			"제품명":   {Field: models.FieldNameKo, Transformer: models.TransformText},
			"브랜드":   {Field: models.FieldBrand, Transformer: models.TransformText},
			"월 렌탈료": {Field: models.FieldMonthlyPrice, Transformer: models.TransformPrice},
			"분류":    {Field: models.FieldCategory, Transformer: models.TransformCategory},
		},
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"55000", 55000},
		{"55,000", 55000},
		{"₩55,000", 55000},
		{"₩55,000원", 55000},
		{"월 55,000원", 55000},
		{"4.5", 4.5},
		{" 1,299,000 KRW ", 1299000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := coerceNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerceNumber_Invalid(t *testing.T) {
	for _, input := range []string{"", "없음", "상담 문의", "0", "-100", "1.2.3"} {
		_, err := coerceNumber(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestTransform_KoreanPriceListRow(t *testing.T) {
	transformer := newRowTransformer(koreanPriceListMapping(), "lg-2025.xlsx", "Sheet1")

	header := []string{"제품명", "브랜드", "월 렌탈료", "모델명", "분류"}
	row := []string{"디오스 오브제컬렉션", "LG", "₩55,000원", "M873GBB031", "냉장고"}

	draft := transformer.Transform(header, row, 1)

	require.NotNil(t, draft.NameKo)
	assert.Equal(t, "디오스 오브제컬렉션", *draft.NameKo)
	require.NotNil(t, draft.Brand)
	assert.Equal(t, "LG", *draft.Brand)
	require.NotNil(t, draft.MonthlyPrice)
	assert.Equal(t, float64(55000), *draft.MonthlyPrice)
	require.NotNil(t, draft.CategoryID)
	assert.Equal(t, models.CategoryRefrigerator, *draft.CategoryID)

	// Unmapped column keeps its original header name in the bag.
	val, ok := draft.Specs.Get("모델명")
	require.True(t, ok)
	assert.Equal(t, "M873GBB031", val.Str)

	assert.Equal(t, "lg-2025.xlsx", draft.SourceFile)
	assert.Equal(t, "Sheet1", draft.SheetName)
	assert.Equal(t, 1, draft.RowIndex)
	assert.Equal(t, row, draft.RawRow)
	assert.Empty(t, draft.FieldErrors)
	assert.Equal(t, models.DraftPending, draft.Status)
}

func TestTransform_BadNumberRecordsFieldError(t *testing.T) {
	transformer := newRowTransformer(koreanPriceListMapping(), "f.xlsx", "Sheet1")

	header := []string{"제품명", "월 렌탈료", "분류"}
	row := []string{"코드제로 로봇청소기", "상담 문의", "로봇청소기"}

	draft := transformer.Transform(header, row, 2)

	// The row survives; only the price field is dropped.
	assert.Nil(t, draft.MonthlyPrice)
	require.Len(t, draft.FieldErrors, 1)
	assert.Contains(t, draft.FieldErrors[0], "monthlyPrice")
	require.NotNil(t, draft.NameKo)
	assert.Equal(t, "코드제로 로봇청소기", *draft.NameKo)
}

func TestTransform_DefaultValueForEmptyCell(t *testing.T) {
	mapping := koreanPriceListMapping()
	mapping.ColumnMappings["브랜드"] = models.MappingRule{
		Field:        models.FieldBrand,
		Transformer:  models.TransformText,
		DefaultValue: "LG",
	}
	transformer := newRowTransformer(mapping, "f.xlsx", "Sheet1")

	header := []string{"제품명", "브랜드", "월 렌탈료"}
	row := []string{"통돌이 세탁기", "", "39,900"}

	draft := transformer.Transform(header, row, 1)

	require.NotNil(t, draft.Brand)
	assert.Equal(t, "LG", *draft.Brand)
}

func TestTransform_FallbacksFromGuesses(t *testing.T) {
	mapping := &models.ResolvedMapping{
		ColumnMappings: models.ColumnMapping{
			"제품명":   {Field: models.FieldNameKo, Transformer: models.TransformText},
			"월 렌탈료": {Field: models.FieldMonthlyPrice, Transformer: models.TransformPrice},
		},
		CategoryGuess: "정수기",
		BrandGuess:    "Coway",
	}
	transformer := newRowTransformer(mapping, "coway.xlsx", "Sheet1")

	header := []string{"제품명", "월 렌탈료"}
	draft := transformer.Transform(header, []string{"아이콘 정수기2", "32,900"}, 1)

	require.NotNil(t, draft.CategoryID)
	assert.Equal(t, models.CategoryWaterPurifier, *draft.CategoryID)
	require.NotNil(t, draft.Brand)
	assert.Equal(t, "Coway", *draft.Brand)
	require.NotNil(t, draft.Rating)
	assert.Equal(t, defaultRating, *draft.Rating)
	assert.Equal(t, models.DraftPending, draft.Status)
}

func TestTransform_UncategorizedDraftNeedsReview(t *testing.T) {
	mapping := &models.ResolvedMapping{
		ColumnMappings: models.ColumnMapping{
			"제품명": {Field: models.FieldNameKo, Transformer: models.TransformText},
			"분류":  {Field: models.FieldCategory, Transformer: models.TransformCategory},
		},
	}
	transformer := newRowTransformer(mapping, "f.xlsx", "Sheet1")

	header := []string{"제품명", "분류"}
	draft := transformer.Transform(header, []string{"안마의자 프리미엄", "안마의자"}, 1)

	require.NotNil(t, draft.CategoryID)
	assert.Equal(t, models.CategoryUncategorized, *draft.CategoryID)
	assert.Equal(t, models.DraftNeedsReview, draft.Status)
}

func TestTransform_UnrecognizedTargetFieldGoesToBag(t *testing.T) {
	mapping := &models.ResolvedMapping{
		ColumnMappings: models.ColumnMapping{
			"제품명":  {Field: models.FieldNameKo, Transformer: models.TransformText},
			"설치비":  {Field: "installationFee", Transformer: models.TransformNumber},
			"색상":   {Field: "color", Transformer: models.TransformText},
		},
	}
	transformer := newRowTransformer(mapping, "f.xlsx", "Sheet1")

	header := []string{"제품명", "설치비", "색상"}
	draft := transformer.Transform(header, []string{"휘센 에어컨", "30,000", "베이지"}, 1)

	fee, ok := draft.Specs.Get("installationFee")
	require.True(t, ok)
	assert.Equal(t, models.SpecNumber, fee.Kind)
	assert.Equal(t, float64(30000), fee.Num)

	color, ok := draft.Specs.Get("color")
	require.True(t, ok)
	assert.Equal(t, "베이지", color.Str)
}

func TestTransform_ShortRowTreatedAsMissingCells(t *testing.T) {
	transformer := newRowTransformer(koreanPriceListMapping(), "f.xlsx", "Sheet1")

	header := []string{"제품명", "브랜드", "월 렌탈료", "모델명", "분류"}
	// excelize trims trailing empty cells from GetRows output.
	draft := transformer.Transform(header, []string{"그랑데 건조기", "삼성"}, 3)

	require.NotNil(t, draft.NameKo)
	assert.Nil(t, draft.MonthlyPrice)
	assert.Nil(t, draft.CategoryID)
	assert.Empty(t, draft.FieldErrors)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, isBlankRow(nil))
	assert.True(t, isBlankRow([]string{"", "  ", "\t"}))
	assert.False(t, isBlankRow([]string{"", "x"}))
}
