package groups

import (
	"html/template"

	groupdomain "social-app-go/internal/domain/group"
	postdomain "social-app-go/internal/domain/post"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

const defaultMultipartMemory = 32 << 20

type Handlers struct {
	Groups         *groupdomain.Service
	Posts          *postdomain.Service
	urls           commonhandler.FileURLs
	log            logger.Logger
	memory         int64
	invitationPage *template.Template
}

func New(groups *groupdomain.Service, posts *postdomain.Service, urls commonhandler.FileURLs, multipartMemory int64, log logger.Logger) *Handlers {
	if multipartMemory <= 0 {
		multipartMemory = defaultMultipartMemory
	}
	return &Handlers{
		Groups:         groups,
		Posts:          posts,
		urls:           urls,
		log:            log,
		memory:         multipartMemory,
		invitationPage: template.Must(template.New("invitation").Parse(invitationPageHTML)),
	}
}
