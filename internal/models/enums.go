package models

// Category classifies what a complaint is about.
type Category string

const (
	CategoryAcademic       Category = "academic"
	CategoryAdministrative Category = "administrative"
	CategoryFacilities     Category = "facilities"
	CategoryTechnical      Category = "technical"
	CategoryOther          Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryAcademic, CategoryAdministrative, CategoryFacilities, CategoryTechnical, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Department is the university unit a complaint is routed to.
type Department string

const (
	DepartmentComputerScience      Department = "computer-science"
	DepartmentEngineering          Department = "engineering"
	DepartmentBusiness             Department = "business"
	DepartmentArts                 Department = "arts"
	DepartmentSciences             Department = "sciences"
	DepartmentStudentAffairs       Department = "student-affairs"
	DepartmentFacilitiesManagement Department = "facilities-management"
	DepartmentITServices           Department = "it-services"
	DepartmentOther                Department = "other"
)

// AllDepartments lists every department in display order.
var AllDepartments = []Department{
	DepartmentComputerScience, DepartmentEngineering, DepartmentBusiness, DepartmentArts,
	DepartmentSciences, DepartmentStudentAffairs, DepartmentFacilitiesManagement,
	DepartmentITServices, DepartmentOther,
}

func (d Department) Valid() bool {
	for _, v := range AllDepartments {
		if v == d {
			return true
		}
	}
	return false
}

// Status is a complaint's position in its lifecycle.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under-review"
	StatusInProgress  Status = "in-progress"
	StatusResolved    Status = "resolved"
	StatusRejected    Status = "rejected"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusPending, StatusUnderReview, StatusInProgress, StatusResolved, StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}
