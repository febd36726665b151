package models

import (
	"errors"
	"fmt"
)

// 错误分类（errors.Is 判定）
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrClassification    = errors.New("classification error")
	ErrUnknownArchetype  = errors.New("unknown archetype")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrPersistence       = errors.New("persistence error")
	ErrInvalidPrediction = errors.New("invalid prediction")
)

// InputError 输入校验失败
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ClassificationError 分类器失败或返回值不在 1–5 内
type ClassificationError struct {
	Value any   // 分类器原始返回值（可能为 nil）
	Cause error // 分类器自身错误（可能为 nil）
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error: %v", e.Cause)
	}
	return fmt.Sprintf("classification error: predicted value %v outside archetype range 1..5", e.Value)
}

func (e *ClassificationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrClassification, e.Cause}
	}
	return []error{ErrClassification}
}

// UnknownArchetypeError 注册表中不存在该工艺类型
type UnknownArchetypeError struct {
	ArchetypeID ArchetypeID
}

func (e *UnknownArchetypeError) Error() string {
	return fmt.Sprintf("unknown archetype: %d", int(e.ArchetypeID))
}

func (e *UnknownArchetypeError) Unwrap() error { return ErrUnknownArchetype }

// SchemaMismatchError 预测向量与注册表声明的列不一致
//
// Kind: "stage_durations" | "equipment" | "equipment_label"
type SchemaMismatchError struct {
	ArchetypeID ArchetypeID
	Kind        string
	Expected    int
	Actual      int
	Slot        string // 仅 equipment_label
	Label       string // 仅 equipment_label
}

func (e *SchemaMismatchError) Error() string {
	if e.Kind == "equipment_label" {
		return fmt.Sprintf("schema mismatch: archetype %d slot %s: label %q not in vocabulary",
			int(e.ArchetypeID), e.Slot, e.Label)
	}
	return fmt.Sprintf("schema mismatch: archetype %d %s: expected %d values, got %d",
		int(e.ArchetypeID), e.Kind, e.Expected, e.Actual)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// NonFinitePredictionError 预测器输出 NaN 或 ±Inf
type NonFinitePredictionError struct {
	ArchetypeID ArchetypeID
	Column      string
	Value       float64
}

func (e *NonFinitePredictionError) Error() string {
	return fmt.Sprintf("invalid prediction: archetype %d %s is %v", int(e.ArchetypeID), e.Column, e.Value)
}

func (e *NonFinitePredictionError) Unwrap() error { return ErrInvalidPrediction }

// PersistError 持久化边界错误
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
