package model

// Source identifies the mail provider a message was pulled from.
type Source string

const (
	SourceGmail Source = "gmail"
	SourceNaver Source = "naver"
)

// Label returns the display name of the provider.
func (s Source) Label() string {
	switch s {
	case SourceGmail:
		return "Gmail"
	case SourceNaver:
		return "네이버"
	default:
		return string(s)
	}
}

// SourceFilter restricts the list and counts to one provider.
type SourceFilter string

const (
	FilterAll   SourceFilter = "all"
	FilterGmail SourceFilter = "gmail"
	FilterNaver SourceFilter = "naver"
)

// SourceFilters lists the filters in tab order.
var SourceFilters = []SourceFilter{FilterAll, FilterGmail, FilterNaver}

// Label returns the tab label for the filter.
func (f SourceFilter) Label() string {
	switch f {
	case FilterGmail:
		return "Gmail"
	case FilterNaver:
		return "네이버"
	default:
		return "전체"
	}
}

// QueryValue returns the value of the backend's optional source parameter,
// or "" when the filter places no restriction.
func (f SourceFilter) QueryValue() string {
	if f == FilterAll || f == "" {
		return ""
	}
	return string(f)
}

// MailMessage is one entry of a message list page.
type MailMessage struct {
	ID             int64          `json:"id"`
	Source         Source         `json:"source"`
	ExternalID     string         `json:"external_id"`
	FromEmail      string         `json:"from_email"`
	FromName       string         `json:"from_name"`
	Subject        string         `json:"subject"`
	ToEmail        string         `json:"to_email"`
	Folder         string         `json:"folder"`
	ReceivedAt     *Timestamp     `json:"received_at"`
	IsRead         bool           `json:"is_read"`
	Classification Classification `json:"classification"`
}

// Sender returns the best available sender label.
func (m MailMessage) Sender() string {
	return senderLabel(m.FromName, m.FromEmail)
}

// DisplaySubject returns the subject or a placeholder when it is empty.
func (m MailMessage) DisplaySubject() string {
	if m.Subject == "" {
		return "(제목 없음)"
	}
	return m.Subject
}

// MailDetail is a message with its full body, fetched on demand.
type MailDetail struct {
	ID             int64          `json:"id"`
	Source         Source         `json:"source"`
	FromEmail      string         `json:"from_email"`
	FromName       string         `json:"from_name"`
	Subject        string         `json:"subject"`
	ToEmail        string         `json:"to_email"`
	Folder         string         `json:"folder"`
	BodyText       string         `json:"body_text"`
	ReceivedAt     *Timestamp     `json:"received_at"`
	IsRead         bool           `json:"is_read"`
	Classification Classification `json:"classification"`
}

// Sender returns the best available sender label.
func (d MailDetail) Sender() string {
	return senderLabel(d.FromName, d.FromEmail)
}

// DisplaySubject returns the subject or a placeholder when it is empty.
func (d MailDetail) DisplaySubject() string {
	if d.Subject == "" {
		return "(제목 없음)"
	}
	return d.Subject
}

// DisplayBody returns the body or a placeholder when it is empty.
func (d MailDetail) DisplayBody() string {
	if d.BodyText == "" {
		return "(본문 없음)"
	}
	return d.BodyText
}

func senderLabel(name, email string) string {
	switch {
	case name != "":
		return name
	case email != "":
		return email
	default:
		return "(알 수 없음)"
	}
}

// MailListResponse is one page of the message list.
type MailListResponse struct {
	Total    int           `json:"total"`
	Offset   int           `json:"offset"`
	Limit    int           `json:"limit"`
	Messages []MailMessage `json:"messages"`
}

// FindMessage returns the message with the given id on this page.
func (r MailListResponse) FindMessage(id int64) (MailMessage, bool) {
	for _, m := range r.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return MailMessage{}, false
}

// UserInfo describes the signed-in user and their linked providers.
type UserInfo struct {
	UserID          int64  `json:"user_id"`
	Email           string `json:"email"`
	GoogleConnected bool   `json:"google_connected"`
	NaverConnected  bool   `json:"naver_connected"`
}

// ConnectedSources returns the providers that can be synced.
func (u UserInfo) ConnectedSources() []Source {
	var out []Source
	if u.GoogleConnected {
		out = append(out, SourceGmail)
	}
	if u.NaverConnected {
		out = append(out, SourceNaver)
	}
	return out
}
