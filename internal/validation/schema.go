// Package validation は宣言的なフィールド単位バリデーションスキーマを提供する。
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Errors はフィールド名からエラーメッセージ列へのマッピング。
// 空マップは入力が有効であることを意味する。
type Errors map[string][]string

// Valid はエラーが1件もないことを返す。
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Add はフィールドにエラーメッセージを追記する。
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// HasError は指定フィールドにエラーが存在するかを返す。
func (e Errors) HasError(field string) bool {
	return len(e[field]) > 0
}

// FieldRule は1フィールド分のバリデーションルールを表す。
// Rulesにはvalidator/v10のタグ式を指定する（例: "required,notblank,min=5,max=25"）。
type FieldRule struct {
	Field string
	Rules string
}

// Schema は複数フィールドの宣言的ルールセット。
// フィールドは宣言順にすべて評価され、フィールド間での短絡は行わない
// （1フィールド内ではルールの最初の違反のみ報告する）。
type Schema struct {
	validate *validator.Validate
	rules    []FieldRule
}

// NewSchema はルールセットからSchemaを生成する。
// 非空白チェック用にvalidator/v10の非標準バリデータnotblankを登録する。
func NewSchema(rules ...FieldRule) *Schema {
	v := validator.New()
	// nonstandard.NotBlankはエラーを返さないため無視できる
	_ = v.RegisterValidation("notblank", nonstandard.NotBlank)

	return &Schema{
		validate: v,
		rules:    rules,
	}
}

// Fields はスキーマに宣言されたフィールド名を宣言順で返す。
func (s *Schema) Fields() []string {
	fields := make([]string, len(s.rules))
	for i, r := range s.rules {
		fields[i] = r.Field
	}
	return fields
}

// Validate は生入力をスキーマで評価し、フィールド別エラーマッピングを返す。
// 入力に存在しないフィールドは空文字列として扱われ、必須ルールに違反する。
// 違反のないフィールドはマッピングに一切現れない。
func (s *Schema) Validate(input map[string]string) Errors {
	errs := Errors{}

	for _, rule := range s.rules {
		value := input[rule.Field]

		err := s.validate.Var(value, rule.Rules)
		if err == nil {
			continue
		}

		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			// Varに不正な値型を渡した場合のみ到達する（文字列入力では発生しない）
			errs.Add(rule.Field, "is invalid")
			continue
		}
		for _, fe := range verrs {
			errs.Add(rule.Field, messageFor(fe))
		}
	}

	return errs
}

// messageFor は違反したルールタグからユーザー向けメッセージを導出する。
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must be filled"
	case "min":
		return fmt.Sprintf("length must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("length must be at most %s", fe.Param())
	case "email":
		return "is in invalid format"
	default:
		return "is invalid"
	}
}
