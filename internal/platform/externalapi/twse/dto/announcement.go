// Package dto はTWSE OpenAPIのレスポンス形式を定義します。
package dto

// Announcement は重大訊息エンドポイント（t187ap04_L）の1レコードです。
// フィールド名はTWSE側のJSONキーそのままです。「主旨 」のキーに
// 末尾スペースが含まれるのはTWSE側の仕様です。
type Announcement struct {
	ReportDate       string `json:"出表日期"`
	DateOfSpeech     string `json:"發言日期"`
	TimeOfSpeech     string `json:"發言時間"`
	StockID          string `json:"公司代號"`
	CompanyName      string `json:"公司名稱"`
	Title            string `json:"主旨 "`
	CompliedTerm     string `json:"符合條款"`
	DateOfOccurrence string `json:"事實發生日"`
	Explanation      string `json:"說明"`
}

// StockInfo は企業情報解決APIのレスポンスです。
type StockInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
