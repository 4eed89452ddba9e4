package posts

import (
	commentdomain "social-app-go/internal/domain/comment"
	postdomain "social-app-go/internal/domain/post"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

const defaultMultipartMemory = 32 << 20

type Handlers struct {
	Posts    *postdomain.Service
	Comments *commentdomain.Service
	urls     commonhandler.FileURLs
	log      logger.Logger
	memory   int64
}

func New(posts *postdomain.Service, comments *commentdomain.Service, urls commonhandler.FileURLs, multipartMemory int64, log logger.Logger) *Handlers {
	if multipartMemory <= 0 {
		multipartMemory = defaultMultipartMemory
	}
	return &Handlers{
		Posts:    posts,
		Comments: comments,
		urls:     urls,
		log:      log,
		memory:   multipartMemory,
	}
}
