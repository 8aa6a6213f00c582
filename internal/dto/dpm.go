package dto

// ── DPM requests ──

// CreateDpmRequest is the manual DPM entry form.
type CreateDpmRequest struct {
	Driver    string `json:"driver"     binding:"required"`
	Block     string `json:"block"      binding:"required,max=20"`
	Date      string `json:"date"       binding:"required"` // MM/dd/yyyy
	DpmTypeID int    `json:"dpm_type_id" binding:"required"`
	Location  string `json:"location"   binding:"required,max=10"`
	StartTime string `json:"start_time" binding:"required,len=4"` // HHmm
	EndTime   string `json:"end_time"   binding:"required,len=4"` // HHmm
	Notes     string `json:"notes"      binding:"omitempty,max=2000"`
}

// UpdateDpmStatusRequest drives the approval state machine. Nil fields are
// left untouched.
type UpdateDpmStatusRequest struct {
	Approved *bool `json:"approved"`
	Ignored  *bool `json:"ignored"`
	Points   *int  `json:"points"`
}

// ── DPM responses ──

// ApprovalDpmResponse is one row on the approvals screen.
type ApprovalDpmResponse struct {
	ID        int    `json:"id"`
	Driver    string `json:"driver"`
	CreatedBy string `json:"created_by"`
	Type      string `json:"type"`
	Points    int    `json:"points"`
	Block     string `json:"block"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
	Notes     string `json:"notes,omitempty"`
}

// DpmDetailResponse is one row of a driver's DPM history.
type DpmDetailResponse struct {
	ID        int    `json:"id"`
	Driver    string `json:"driver"`
	CreatedBy string `json:"created_by"`
	Type      string `json:"type"`
	Points    int    `json:"points"`
	Block     string `json:"block"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status"`
}

// HomeDpmResponse is one row of the driver's own recent DPMs.
type HomeDpmResponse struct {
	Type   string `json:"type"`
	Points int    `json:"points"`
	Date   string `json:"date"`
	Notes  string `json:"notes,omitempty"`
}

// ── DPM type catalog ──

// DpmGroupResponse is one catalog group with its active types.
type DpmGroupResponse struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	DpmTypes []DpmTypeResponse `json:"dpm_types"`
}

// DpmTypeResponse is one catalog entry.
type DpmTypeResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ── pagination ──

// PaginationRequest is the shared paging query shape.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page number with its default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size with its default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset computes the query offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
