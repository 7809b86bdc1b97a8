package domain

import "time"

type Batch int

const (
	BatchNotGiven Batch = iota
	BatchA1
	BatchA2
	BatchB1
	BatchB2
	BatchC1
	BatchC2
)

func (b Batch) String() string {
	switch b {
	case BatchA1:
		return "Batch A Stream 1"
	case BatchA2:
		return "Batch A Stream 2"
	case BatchB1:
		return "Batch B Stream 1"
	case BatchB2:
		return "Batch B Stream 2"
	case BatchC1:
		return "Batch C Stream 1"
	case BatchC2:
		return "Batch C Stream 2"
	default:
		return "Not Given"
	}
}

func (b Batch) Valid() bool {
	return b >= BatchNotGiven && b <= BatchC2
}

// CDS is the community development service group a corps member belongs to.
type CDS int

const (
	CDSSpecial CDS = iota + 1
	CDSEditorial
	CDSEnvironmental
	CDSCharity
	CDSEducation
	CDSCulture
	CDSICT
	CDSCommunityDevelopment
	CDSAgriculture
	CDSReproductiveHealth
	CDSOthers
)

func (c CDS) String() string {
	switch c {
	case CDSSpecial:
		return "Special CDS"
	case CDSEditorial:
		return "Editorial and Publicity CDS"
	case CDSEnvironmental:
		return "Environmental Protection and Sanitation CDS"
	case CDSCharity:
		return "Charity and Social Welfare CDS"
	case CDSEducation:
		return "Education Development CDS"
	case CDSCulture:
		return "Cultural and Tourism CDS"
	case CDSICT:
		return "ICT and Digital Literacy CDS"
	case CDSCommunityDevelopment:
		return "Community Development and Special Projects CDS"
	case CDSAgriculture:
		return "Agriculture and Agro-Allied CDS"
	case CDSReproductiveHealth:
		return "Reproductive Health and Family Planning CDS"
	default:
		return "Others"
	}
}

func (c CDS) Valid() bool {
	return c >= CDSSpecial && c <= CDSOthers
}

// Attendance is one check-in event. Identifier is the idempotency key supplied
// by the corps member; it is empty on admin-reserved slots. SerialNumber is
// unique per (location, UTC calendar day) and assigned in creation order.
type Attendance struct {
	ID           int64     `json:"id"`
	Identifier   string    `json:"identifier"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	MiddleName   string    `json:"middle_name"`
	StateCode    string    `json:"state_code"`
	Batch        Batch     `json:"batch"`
	CDS          CDS       `json:"cds"`
	SerialNumber int64     `json:"serial_number"`
	LocationID   int64     `json:"location_id"`
	Day          int       `json:"day"` // 0=Sunday..6=Saturday, from the UTC creation instant
	IsReserve    bool      `json:"is_reserve"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceFilter narrows listing and export queries. All set fields compose
// with AND. From/To are clamped to UTC day boundaries by the repository.
type AttendanceFilter struct {
	From      *time.Time
	To        *time.Time
	Batch     *Batch
	CDS       *CDS
	DayOfWeek *int
	Search    string
}
