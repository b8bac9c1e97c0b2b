package models

import (
	"strings"
	"time"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityUnknown  Complexity = "unknown"
)

type RiskLevel string

const (
	RiskLevelLow     RiskLevel = "low"
	RiskLevelMedium  RiskLevel = "medium"
	RiskLevelHigh    RiskLevel = "high"
	RiskLevelUnknown RiskLevel = "unknown"
)

type Risk struct {
	Risk   string `json:"risk"`
	Impact string `json:"impact"`
	Advice string `json:"advice"`
}

// DocumentAnalysis is the canonical analysis record returned to clients.
type DocumentAnalysis struct {
	Summary           string     `json:"summary"`
	DocumentType      string     `json:"documentType"`
	WhatItMeans       string     `json:"whatItMeans"`
	KeyPoints         []string   `json:"keyPoints"`
	PotentialRisks    []Risk     `json:"potentialRisks"`
	RedFlags          []string   `json:"redFlags"`
	YourRights        []string   `json:"yourRights"`
	YourObligations   []string   `json:"yourObligations"`
	BeforeSigning     []string   `json:"beforeSigning"`
	OverallAssessment string     `json:"overallAssessment"`
	Complexity        Complexity `json:"complexity"`
	RiskLevel         RiskLevel  `json:"riskLevel"`
	AIProvider        string     `json:"aiProvider"`
}

// Normalize fills every list with an empty slice when absent and maps
// unrecognised enum values to "unknown", so the record always has a full shape.
func (a *DocumentAnalysis) Normalize() {
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	if a.PotentialRisks == nil {
		a.PotentialRisks = []Risk{}
	}
	if a.RedFlags == nil {
		a.RedFlags = []string{}
	}
	if a.YourRights == nil {
		a.YourRights = []string{}
	}
	if a.YourObligations == nil {
		a.YourObligations = []string{}
	}
	if a.BeforeSigning == nil {
		a.BeforeSigning = []string{}
	}

	switch c := Complexity(strings.ToLower(strings.TrimSpace(string(a.Complexity)))); c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		a.Complexity = c
	default:
		a.Complexity = ComplexityUnknown
	}

	switch r := RiskLevel(strings.ToLower(strings.TrimSpace(string(a.RiskLevel)))); r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		a.RiskLevel = r
	default:
		a.RiskLevel = RiskLevelUnknown
	}
}

type AnalysisMetadata struct {
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	MimeType       string    `json:"mimeType"`
	UploadDate     time.Time `json:"uploadDate"`
	TextLength     int       `json:"textLength"`
	ProcessingTime time.Time `json:"processingTime"`
	AIEnabled      bool      `json:"aiEnabled"`
	AIProvider     string    `json:"aiProvider"`
}

// AnalysisResponse flattens the analysis fields next to the metadata record.
type AnalysisResponse struct {
	DocumentAnalysis
	Metadata AnalysisMetadata `json:"metadata"`
}

type TestAIRequest struct {
	Text string `json:"text"`
}

type TestAIResponse struct {
	DocumentAnalysis
	AIEnabled bool   `json:"aiEnabled"`
	Message   string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type TestUploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
