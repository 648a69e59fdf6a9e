package face

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/named-data/slfwd/core"
	"github.com/named-data/slfwd/defn"
	"github.com/named-data/slfwd/ndn"
)

// WebSocketFace serves a browser-side NDN consumer. It reports NonLocal
// scope even though its peer usually lives on the same host, so
// need_prefix_ann counts its in-records as non-local; need_prefix_ann's
// "wsclient" RemoteScheme check only changes the result for local-scope
// faces.
type WebSocketFace struct {
	baseFace
	conn   *websocket.Conn
	onRecv func(pkt any)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  defn.MaxNDNPacketSize,
	WriteBufferSize: defn.MaxNDNPacketSize,
}

// UpgradeWebSocketFace upgrades an HTTP connection to a WebSocket face.
func UpgradeWebSocketFace(w http.ResponseWriter, r *http.Request, localURI *ndn.URI) (*WebSocketFace, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	f := &WebSocketFace{
		baseFace: baseFace{
			localURI:    localURI,
			remoteURI:   ndn.MakeWebSocketClientFaceURI(conn.RemoteAddr()),
			scope:       defn.NonLocal,
			linkType:    defn.PointToPoint,
			persistency: defn.PersistencyOnDemand,
			state:       defn.Up,
		},
		conn: conn,
	}
	go f.runLoop()
	return f, nil
}

func (f *WebSocketFace) runLoop() {
	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			f.state = defn.Down
			return
		}
		if f.onRecv != nil {
			f.onRecv(decodeStub(data))
		}
	}
}

// SetRecvCallback installs the handler for packets arriving from the
// browser-side consumer.
func (f *WebSocketFace) SetRecvCallback(cb func(pkt any)) { f.onRecv = cb }

func (f *WebSocketFace) SendInterest(i *ndn.Interest) { f.send(encodeStub(i)) }
func (f *WebSocketFace) SendData(d *ndn.Data)         { f.send(encodeStub(d)) }
func (f *WebSocketFace) SendNack(n *ndn.Nack)         { f.send(encodeStub(n)) }

func (f *WebSocketFace) send(b []byte) {
	if err := f.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		core.LogWarn("WebSocketFace", "send failed on FaceID=", f.id, ": ", err)
		f.state = defn.Down
	}
}

func (f *WebSocketFace) Close() {
	f.state = defn.AdminDown
	_ = f.conn.Close()
}
