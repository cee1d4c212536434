package models

// SpreadRequest carries the options of POST /api/v1/spread. The panel itself
// arrives as the multipart file field "file".
type SpreadRequest struct {
	Format        string `form:"format"`         // csv, xlsx, json; empty = infer from file name
	Sheet         string `form:"sheet"`          // xlsx only
	Order         string `form:"order"`          // newest_first (default) or oldest_first
	MissingTokens string `form:"missing_tokens"` // comma-separated; default "#N/A"
	Buckets       int    `form:"buckets"`        // default 10
	TieBreak      string `form:"tie_break"`      // insertion (default) or asset_id
	MissingPolicy string `form:"missing_policy"` // error (default) or zero
	// IncludeMembers adds each pair's group members to the response.
	IncludeMembers bool `form:"include_members"`
}

// RunQuery is the query string of GET /api/v1/spread/:id.
type RunQuery struct {
	IncludeMembers bool `form:"include_members"`
}

// ReportQuery is the query string of GET /api/v1/spread/:id/csv.
type ReportQuery struct {
	Precision *int   `form:"precision" binding:"omitempty,min=0,max=16"`
	Layout    string `form:"layout" binding:"omitempty,oneof=wide ledger"`
}
