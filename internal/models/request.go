package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// InfluentRequest 外部输入（HTTP body / MQTT payload / stream data）
//
// 九个字段全部必填；heavy_metals 接受 true/false、0/1 以及对应的字符串。
type InfluentRequest struct {
	PH            *float64     `json:"pH"`
	TDS           *float64     `json:"TDS_mgL"`
	Turbidity     *float64     `json:"turbidity_NTU"`
	BOD           *float64     `json:"BOD_mgL"`
	COD           *float64     `json:"COD_mgL"`
	TotalNitrogen *float64     `json:"total_nitrogen_mgL"`
	Temperature   *float64     `json:"temperature_C"`
	FlowM3PerDay  *float64     `json:"flow_m3_day"`
	HeavyMetals   *HeavyMetals `json:"heavy_metals"`
}

// HeavyMetals 重金属标志
type HeavyMetals bool

// UnmarshalJSON 接受 true/false、0/1、"true"/"false"/"0"/"1"
func (h *HeavyMetals) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	switch string(b) {
	case "true", "1":
		*h = true
	case "false", "0":
		*h = false
	default:
		if f, err := strconv.ParseFloat(string(b), 64); err == nil && (f == 0 || f == 1) {
			*h = f == 1
			return nil
		}
		return &InputError{Field: "heavy_metals", Value: string(b), Reason: "must be true, false, 0 or 1"}
	}
	return nil
}

// ParseInfluentRequest 解析并校验 JSON 输入
func ParseInfluentRequest(data []byte) (InfluentSample, error) {
	var req InfluentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return InfluentSample{}, inputErr
		}
		return InfluentSample{}, &InputError{Field: "body", Value: nil, Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return req.Sample()
}

// Sample 转换为样本并做边界校验
func (r InfluentRequest) Sample() (InfluentSample, error) {
	required := []struct {
		name  string
		value *float64
	}{
		{"pH", r.PH},
		{"TDS_mgL", r.TDS},
		{"turbidity_NTU", r.Turbidity},
		{"BOD_mgL", r.BOD},
		{"COD_mgL", r.COD},
		{"total_nitrogen_mgL", r.TotalNitrogen},
		{"temperature_C", r.Temperature},
		{"flow_m3_day", r.FlowM3PerDay},
	}
	for _, f := range required {
		if f.value == nil {
			return InfluentSample{}, &InputError{Field: f.name, Reason: "is required"}
		}
	}
	if r.HeavyMetals == nil {
		return InfluentSample{}, &InputError{Field: "heavy_metals", Reason: "is required"}
	}

	s := InfluentSample{
		PH:            *r.PH,
		TDS:           *r.TDS,
		Turbidity:     *r.Turbidity,
		BOD:           *r.BOD,
		COD:           *r.COD,
		TotalNitrogen: *r.TotalNitrogen,
		Temperature:   *r.Temperature,
		FlowM3PerDay:  *r.FlowM3PerDay,
		HeavyMetals:   bool(*r.HeavyMetals),
	}
	if err := s.Validate(); err != nil {
		return InfluentSample{}, err
	}
	return s, nil
}
