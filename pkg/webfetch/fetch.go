package webfetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-go-golems/chatsift/pkg/export"
	"github.com/pkg/errors"
)

// NextData mirrors the __NEXT_DATA__ payload embedded in shared conversation
// pages. Only the fields needed to reconstruct the conversation are decoded.
type NextData struct {
	Props struct {
		PageProps struct {
			SharedConversationID string `json:"sharedConversationId"`
			ServerResponse       struct {
				ServerResponseData `json:"data"`
			} `json:"serverResponse"`
		} `json:"pageProps"`
	} `json:"props"`
}

type ServerResponseData struct {
	Title              string        `json:"title"`
	CreateTime         float64       `json:"create_time"`
	UpdateTime         float64       `json:"update_time"`
	LinearConversation []export.Node `json:"linear_conversation"`
}

// Fetch loads a shared conversation page from a URL or a local HTML file and
// reconstructs it as an export conversation, so the same processing pipeline
// applies to fetched and archived conversations alike.
func Fetch(ctx context.Context, source string) (*export.Conversation, error) {
	html, err := readSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(html)
}

// Parse extracts the __NEXT_DATA__ script from a shared conversation page and
// rebuilds the node mapping from the linear conversation it contains.
func Parse(html []byte) (*export.Conversation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse HTML")
	}

	script := doc.Find("#__NEXT_DATA__").Text()
	if script == "" {
		return nil, errors.New("no __NEXT_DATA__ script found, not a shared conversation page")
	}

	var data NextData
	if err := json.Unmarshal([]byte(script), &data); err != nil {
		return nil, errors.Wrap(err, "could not decode __NEXT_DATA__")
	}

	return fromServerResponse(
		data.Props.PageProps.SharedConversationID,
		data.Props.PageProps.ServerResponse.ServerResponseData,
	), nil
}

// fromServerResponse converts the already-linearized conversation back into a
// node mapping, chaining nodes in list order and pointing current_node at the
// last one.
func fromServerResponse(id string, data ServerResponseData) *export.Conversation {
	conv := &export.Conversation{
		ID:      id,
		Title:   data.Title,
		Mapping: make(map[string]*export.Node, len(data.LinearConversation)),
	}
	if data.CreateTime > 0 {
		ct := data.CreateTime
		conv.CreateTime = &ct
	}
	if data.UpdateTime > 0 {
		ut := data.UpdateTime
		conv.UpdateTime = &ut
	}

	prev := ""
	for i := range data.LinearConversation {
		node := data.LinearConversation[i]
		if node.ID == "" {
			continue
		}
		node.Parent = prev
		node.Children = nil
		if prev != "" {
			conv.Mapping[prev].Children = []string{node.ID}
		}
		conv.Mapping[node.ID] = &node
		conv.CurrentNode = node.ID
		prev = node.ID
	}

	return conv
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return getContent(ctx, source)
	}
	html, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", source)
	}
	return html, nil
}

func getContent(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build request for %s", url)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch %s", url)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
