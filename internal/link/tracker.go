package link

import (
	"time"

	"swlink/third_party/forked/golang/glog"

	"swlink/pkg/util"
)

type PendingRequest struct {
	reqCtx       *RequestContext
	token        uint16
	timeSent     time.Time
	timeToExpire time.Time
}

type PendingResponseMap map[uint16]*PendingRequest

// PendingTracker correlates responses to in-flight requests by token.
// Responses may arrive in any order; each one resolves whichever pending
// request carries its token, never the oldest. The queue exists only to
// expire requests in send order.
type PendingTracker struct {
	mapRequestsSent PendingResponseMap
	pendingQueue    []*PendingRequest
	responseTimer   *util.TimerWrapper
	requestTimeout  time.Duration
}

func newPendingTracker(requestTimeout time.Duration) *PendingTracker {
	return &PendingTracker{
		mapRequestsSent: make(PendingResponseMap),
		responseTimer:   util.NewTimerWrapper(requestTimeout),
		requestTimeout:  requestTimeout,
	}
}

func (p *PendingTracker) GetTimeoutCh() <-chan time.Time {
	return p.responseTimer.GetTimeoutCh()
}

func (p *PendingTracker) NumPending() int {
	return len(p.mapRequestsSent)
}

func (p *PendingTracker) OnRequestSent(reqCtx *RequestContext, token uint16) {
	now := time.Now()
	pending := &PendingRequest{reqCtx: reqCtx, token: token, timeSent: now, timeToExpire: now.Add(p.requestTimeout)}
	p.pendingQueue = append(p.pendingQueue, pending)
	if v, found := p.mapRequestsSent[token]; found {
		glog.Fatalf("token reused while pending: %v", v)
	}
	p.mapRequestsSent[token] = pending
	if p.responseTimer.IsStopped() {
		p.responseTimer.Reset(p.requestTimeout)
	}
}

func (p *PendingTracker) OnTimeout(now time.Time) {
	p.responseTimer.Stop()
	sz := len(p.pendingQueue)
	if sz != 0 {
		queue := p.pendingQueue
		p.pendingQueue = p.pendingQueue[:0]

		var i int
		for i = 0; i < sz; i++ {
			pr := queue[i]
			if pr.reqCtx != nil {
				if pr.timeToExpire.After(now) {
					p.responseTimer.Reset(pr.timeToExpire.Sub(now))
					break
				}
				token := pr.token
				if _, found := p.mapRequestsSent[token]; found {
					req := pr.reqCtx.request
					if req != nil {
						glog.Warningf("timeout <- device: %s %s elapsed=%s token=%d",
							req.Method(), req.Target(), now.Sub(pr.timeSent), token)
					}
					pr.reqCtx.ReplyError(ErrResponseTimeout)
					delete(p.mapRequestsSent, token)
				}
			}
		}
		p.pendingQueue = queue[i:sz]
	}
}

func (p *PendingTracker) OnResponseReceived(resp *coapResponse) {
	token := resp.token
	if pending, found := p.mapRequestsSent[token]; found {
		delete(p.mapRequestsSent, token)
		pending.reqCtx.Reply(resp.msg)
		pending.reqCtx = nil
	} else {
		glog.Warningf("no pending request for token %d (mid=%d)", token, resp.msg.MessageID())
	}
}

func (p *PendingTracker) ClearOnError(err error) {
	glog.DebugDepth(1, err)
	p.responseTimer.Stop()
	for k, v := range p.mapRequestsSent {
		if v.reqCtx == nil {
			glog.Fatal("nil request context")
		} else {
			v.reqCtx.ReplyError(err)
		}
		delete(p.mapRequestsSent, k)
	}
	p.pendingQueue = p.pendingQueue[:0]
}
