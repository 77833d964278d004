// Package queue wraps the NATS connection used to hand completed workflow results off to the
// asynchronous Persistence Adapter writer.
package queue

import (
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	NC *nats.Conn
	JS nats.JetStreamContext
)

// PersistSubject is where completed workflow documents are published for background storage.
const PersistSubject = "underwriting.persist"

// InitNATS tries to connect up to five times, pausing 1s, 2s, 3s... between attempts. A failed
// connection leaves NC nil; callers fall back to direct synchronous persistence rather than
// treating this as fatal.
func InitNATS(url string) {
	var err error
	for i := 0; i < 5; i++ {
		NC, err = nats.Connect(url,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(10),
			nats.ReconnectWait(time.Second*2),
		)
		if err == nil {
			break
		}
		log.Printf("⚠️ NATS connection failed (attempt %d): %v", i+1, err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	if err != nil {
		log.Printf("❌ Could not connect to NATS, falling back to synchronous persistence: %v", err)
		return
	}

	JS, err = NC.JetStream()
	if err != nil {
		log.Printf("⚠️ JetStream initialization failed: %v", err)
	}

	log.Println("⚡ NATS connected successfully")
}

func Publish(subject string, data []byte) error {
	return NC.Publish(subject, data)
}

func Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return NC.Subscribe(subject, cb)
}

func Close() {
	if NC != nil {
		NC.Close()
	}
}

func IsConnected() bool {
	return NC != nil && NC.Status() == nats.CONNECTED
}
