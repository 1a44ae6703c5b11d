package models

import "encoding/json"

// AnalysisRequest is the body of POST /analyze. Fields stay raw so that
// falsy values of any JSON type count as missing rather than failing decode.
type AnalysisRequest struct {
	JobDescription json.RawMessage `json:"job_description"`
	ResumeText     json.RawMessage `json:"resume_text"`
}

type AnalysisResponse struct {
	MatchScore float64 `json:"match_score"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CandidateSearchRequest struct {
	JobDescription string `json:"job_description"`
	Limit          int    `json:"limit"`
}

type CandidateSearchResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Similarity  float64 `json:"similarity"`
	MatchScore  float64 `json:"match_score"`
}

type CandidateSearchResponse struct {
	Results []CandidateSearchResult `json:"results"`
}
