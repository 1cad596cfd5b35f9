package models

import "encoding/json"

// encodeJSON renders slices and maps for text columns; nil renders as "".
func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return ""
	}
	return string(data)
}

// decodeJSON fills out from a text column; empty or malformed columns leave out untouched.
func decodeJSON(s string, out any) {
	if s == "" {
		return
	}
	_ = json.Unmarshal([]byte(s), out)
}

// All returns every model in dependency order, for AutoMigrate in tests and
// development setups. Production schemas come from the SQL migrations.
func All() []any {
	return []any{
		&ProductTypeModel{},
		&VariationTypeModel{},
		&ProductModel{},
		&VariationModel{},
		&AttributeModel{},
		&AttributeValueModel{},
		&AddOnTypeModel{},
		&StoreModel{},
		&VocabularyModel{},
		&TermModel{},
		&FieldStorageModel{},
		&FieldConfigModel{},
		&FileModel{},
		&PathAliasModel{},
		&StockTransactionModel{},
	}
}
