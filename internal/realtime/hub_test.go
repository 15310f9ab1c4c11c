package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/pkg/metrics"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func drain(t *testing.T, client *Client) []frame {
	t.Helper()
	var out []frame
	for {
		select {
		case raw := <-client.Send:
			var f frame
			require.NoError(t, json.Unmarshal(raw, &f))
			out = append(out, f)
		default:
			return out
		}
	}
}

func registered(hub *Hub, buffer int) *Client {
	client := NewClient(buffer)
	hub.Register(client)
	return client
}

func TestHub_JoinAcksAndEmitsToRoomOnly(t *testing.T) {
	hub := NewHub(nil, nil)
	mumbai := registered(hub, 8)
	jaipur := registered(hub, 8)

	hub.Join(mumbai, "Mumbai")
	hub.Join(jaipur, "Jaipur")

	acks := drain(t, mumbai)
	require.Len(t, acks, 1)
	assert.Equal(t, EventJoinedCity, acks[0].Event)
	assert.JSONEq(t, `{"city":"Mumbai","message":"Successfully joined city room"}`, string(acks[0].Data))
	drain(t, jaipur)

	require.NoError(t, hub.Emit(context.Background(), "Mumbai", EventBedUpdated, BedUpdated{HospitalName: "KEM Hospital", BedType: "ICU", AvailableBeds: 3, TotalBeds: 20}))

	got := drain(t, mumbai)
	require.Len(t, got, 1)
	assert.Equal(t, EventBedUpdated, got[0].Event)
	assert.JSONEq(t, `{"hospital_id":"","hospital_name":"KEM Hospital","bed_type":"ICU","available_beds":3,"total_beds":20}`, string(got[0].Data))
	assert.Empty(t, drain(t, jaipur))
}

func TestHub_JoinReplacesPreviousCity(t *testing.T) {
	hub := NewHub(nil, nil)
	client := registered(hub, 8)

	assert.Equal(t, "", hub.Join(client, "Mumbai"))
	assert.Equal(t, "Mumbai", hub.Join(client, "Jaipur"))

	assert.Equal(t, 0, hub.RoomCount("Mumbai"))
	assert.Equal(t, 1, hub.RoomCount("Jaipur"))
	assert.Equal(t, "Jaipur", hub.City(client))

	events := drain(t, client)
	require.Len(t, events, 3)
	assert.Equal(t, EventJoinedCity, events[0].Event)
	assert.Equal(t, EventLeftCity, events[1].Event)
	assert.JSONEq(t, `{"city":"Mumbai","message":"Left city room"}`, string(events[1].Data))
	assert.Equal(t, EventJoinedCity, events[2].Event)

	require.NoError(t, hub.Emit(context.Background(), "Mumbai", EventAlertCreated, AlertCreated{Message: "x"}))
	assert.Empty(t, drain(t, client))
}

func TestHub_JoinSameCityIsStable(t *testing.T) {
	hub := NewHub(nil, nil)
	client := registered(hub, 8)
	hub.Join(client, "Mumbai")
	hub.Join(client, " Mumbai ")
	assert.Equal(t, 1, hub.RoomCount("Mumbai"))
	events := drain(t, client)
	require.Len(t, events, 2)
	assert.Equal(t, EventJoinedCity, events[1].Event)
}

func TestHub_LeaveIsNoOpWhenAbsent(t *testing.T) {
	hub := NewHub(nil, nil)
	client := registered(hub, 8)

	assert.False(t, hub.Leave(client, "Mumbai"))
	hub.Join(client, "Mumbai")
	assert.False(t, hub.Leave(client, "Jaipur"))
	assert.Equal(t, 1, hub.RoomCount("Mumbai"))
	assert.True(t, hub.Leave(client, "Mumbai"))
	assert.Equal(t, 0, hub.RoomCount("Mumbai"))
	assert.Equal(t, "", hub.City(client))
}

func TestHub_UnregisterClosesAndRemoves(t *testing.T) {
	reg := prometheus.NewRegistry()
	hub := NewHub(nil, metrics.NewRealtime(reg))
	client := registered(hub, 8)
	hub.Join(client, "Mumbai")
	drain(t, client)

	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomCount("Mumbai"))
	_, open := <-client.Send
	assert.False(t, open)

	assert.False(t, hub.Leave(client, "Mumbai"))
	assert.Equal(t, "", hub.Join(client, "Mumbai"))
	require.NoError(t, hub.Emit(context.Background(), "Mumbai", EventBedUpdated, BedUpdated{}))
}

func TestHub_EmitSkipsFullClients(t *testing.T) {
	hub := NewHub(nil, nil)
	slow := registered(hub, 1)
	fast := registered(hub, 8)
	hub.Join(slow, "Mumbai")
	hub.Join(fast, "Mumbai")
	drain(t, slow)
	drain(t, fast)

	for i := 0; i < 3; i++ {
		require.NoError(t, hub.Emit(context.Background(), "Mumbai", EventBloodUpdated, BloodUpdated{UnitsAvailable: i}))
	}

	assert.Len(t, drain(t, fast), 3)
	assert.Len(t, drain(t, slow), 1)
}

func TestHub_ConcurrentMembershipAndEmit(t *testing.T) {
	hub := NewHub(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := registered(hub, 4)
			city := "Mumbai"
			if i%2 == 0 {
				city = "Jaipur"
			}
			for j := 0; j < 20; j++ {
				hub.Join(client, city)
				_ = hub.Emit(context.Background(), city, EventBedUpdated, BedUpdated{AvailableBeds: j})
				hub.Leave(client, city)
			}
			hub.Unregister(client)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, hub.ClientCount())
}
