// Package realtime is a websocket client for the OpenAI Realtime API,
// covering the surface a server-side telephony bridge needs: session
// configuration, streaming audio input, conversation items, function
// call outputs, and response control.
//
// Connect, configure, then consume server events:
//
//	client := realtime.NewClient(apiKey)
//	conn, err := client.Connect(ctx, &realtime.ConnectConfig{})
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	err = conn.UpdateSession(&realtime.SessionConfig{
//	    Voice:             realtime.VoiceAlloy,
//	    InputAudioFormat:  realtime.AudioFormatG711ULaw,
//	    OutputAudioFormat: realtime.AudioFormatG711ULaw,
//	    TurnDetection:     &realtime.TurnDetection{Type: realtime.VADServerVAD},
//	})
//
//	for event, err := range conn.Events() {
//	    ...
//	}
package realtime
