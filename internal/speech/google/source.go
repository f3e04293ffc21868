// Package google provides a Google Cloud Speech-to-Text event source.
package google

import (
	"context"
	"io"
	"sync"
	"time"

	speechapi "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
)

// Config holds recognition parameters for the streaming session.
type Config struct {
	LanguageCode   string
	SampleRateHz   int32
	InterimResults bool
}

// DefaultConfig returns the standard recognition parameters.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "en-US",
		SampleRateHz:   16000,
		InterimResults: true,
	}
}

// Source implements speech.EventSource using Google Cloud Speech-to-Text.
// Audio frames are pulled from the injected AudioProvider; the capture
// layer itself is outside this service.
type Source struct {
	client *speechapi.Client
	cfg    Config
	audio  speech.AudioProvider

	mu     sync.Mutex
	stream speechpb.Speech_StreamingRecognizeClient
	cancel context.CancelFunc
}

// New creates a Google source.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
func New(ctx context.Context, cfg Config, audio speech.AudioProvider) (*Source, error) {
	c, err := speechapi.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Source{client: c, cfg: cfg, audio: audio}, nil
}

// Start opens a streaming recognition session, sends the initial config,
// and launches the audio pump and listen goroutines.
func (s *Source) Start(ctx context.Context, cb speech.Callback) error {
	runCtx, cancel := context.WithCancel(ctx)

	stream, err := s.client.StreamingRecognize(runCtx)
	if err != nil {
		cancel()
		return err
	}

	// Send streaming config as the first message
	err = stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: s.cfg.SampleRateHz,
					LanguageCode:    s.cfg.LanguageCode,
				},
				InterimResults: s.cfg.InterimResults,
			},
		},
	})
	if err != nil {
		cancel()
		return err
	}

	s.mu.Lock()
	s.stream = stream
	s.cancel = cancel
	s.mu.Unlock()

	go s.pump(runCtx, stream)
	go s.listen(stream, cb)
	return nil
}

// pump forwards audio frames from the provider to the stream until the
// provider or the context ends.
func (s *Source) pump(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient) {
	for {
		frame, err := s.audio.Read(ctx)
		if err != nil {
			stream.CloseSend()
			return
		}
		err = stream.Send(&speechpb.StreamingRecognizeRequest{
			StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
				AudioContent: frame,
			},
		})
		if err != nil {
			return
		}
	}
}

// listen receives recognition responses and invokes callbacks.
// A receive error ends the stream: io.EOF and local cancellation are
// silent, anything else surfaces as OnCancelled with the gRPC code as the
// reason.
func (s *Source) listen(stream speechpb.Speech_StreamingRecognizeClient, cb speech.Callback) {
	for {
		resp, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				return
			}
			st, _ := status.FromError(err)
			if st.Code() == codes.Canceled {
				return
			}
			cb.OnCancelled(st.Code().String(), err)
			return
		}

		at := time.Now()
		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			if r.IsFinal {
				cb.OnFinal(alt.Transcript, at)
			} else {
				cb.OnInterim(alt.Transcript, at)
			}
		}
	}
}

// Stop ends the streaming session and releases the client. Idempotent.
func (s *Source) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	stream := s.stream
	s.cancel = nil
	s.stream = nil
	s.mu.Unlock()

	if stream != nil {
		stream.CloseSend()
	}
	if cancel != nil {
		cancel()
	}
	return nil
}

// Close releases the underlying client connection.
func (s *Source) Close() error {
	return s.client.Close()
}
